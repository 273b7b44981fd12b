// Package keyexpr evaluates binding key expressions against host objects.
//
// Two engines are provided: expr (github.com/expr-lang/expr, the default) and
// CEL (github.com/google/cel-go). Both see the same variables, built by Env:
//
//	map[string]any hosts  - every entry, plus "this"
//	Environment hosts     - the map returned by KeyEnv, plus "this"
//	struct / *struct      - exported fields (or their `expr` tag), plus "this"
//	anything else         - "this" only
//
// Compiled programs can be shared through a ProgramCache (MapCache or the
// ristretto-backed RistrettoCache).
package keyexpr

import (
	"errors"
	"reflect"
)

// ErrEmptyExpression is returned when compiling "".
var ErrEmptyExpression = errors.New("keyexpr: expression must not be empty")

// Evaluator compiles key expressions.
type Evaluator interface {
	Compile(expression string) (Program, error)
}

// Program is a compiled key expression.
type Program interface {
	Evaluate(host any) (any, error)
	Expression() string
}

// Environment is implemented by hosts that expose their variables explicitly.
type Environment interface {
	KeyEnv() map[string]any
}

// ProgramCache stores compiled programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Option configures an evaluator.
type Option func(*config)

type config struct {
	cache ProgramCache
}

// WithProgramCache shares compiled programs through cache.
func WithProgramCache(cache ProgramCache) Option {
	return func(c *config) { c.cache = cache }
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Env returns the variables a key expression sees for host.
func Env(host any) map[string]any {
	env := map[string]any{}
	switch h := host.(type) {
	case nil:
	case Environment:
		for k, v := range h.KeyEnv() {
			env[k] = v
		}
	case map[string]any:
		for k, v := range h {
			env[k] = v
		}
	default:
		structFields(env, reflect.ValueOf(host))
	}
	env["this"] = host
	return env
}

func structFields(env map[string]any, v reflect.Value) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	for _, f := range reflect.VisibleFields(v.Type()) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		fv, err := v.FieldByIndexErr(f.Index)
		if err != nil || !fv.CanInterface() {
			continue // promoted through a nil or unexported embedded field
		}
		name := f.Name
		if tag := f.Tag.Get("expr"); tag != "" && tag != "-" {
			name = tag
		} else if tag == "-" {
			continue
		}
		env[name] = fv.Interface()
	}
}
