package keyexpr

import "fmt"

// EvalError wraps a compile or runtime failure of one engine.
type EvalError struct {
	Engine     string
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("keyexpr: %s %q: %v", e.Engine, e.Expression, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

func wrapError(engine, expression string, err error) error {
	if err == nil {
		return nil
	}
	return &EvalError{Engine: engine, Expression: expression, Err: err}
}

func cacheKey(engine, expression string) string { return engine + ":" + expression }
