package statefor

import "github.com/unkn0wn-root/statefor/keyexpr"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func defaultEvaluator(e keyexpr.Evaluator) keyexpr.Evaluator {
	if e != nil {
		return e
	}
	return keyexpr.NewExpr(keyexpr.WithProgramCache(keyexpr.NewMapCache()))
}

// LookupName returns the name a category's factory is registered under.
func LookupName(namespace, category string) string {
	return coalesce(namespace, DefaultNamespace) + ":" + category
}
