package keyexpr

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprEvaluator compiles key expressions with github.com/expr-lang/expr.
// Programs are compiled against a map environment, so one program serves any host.
type exprEvaluator struct {
	cache ProgramCache
}

// NewExpr constructs an Evaluator backed by expr-lang/expr.
func NewExpr(opts ...Option) Evaluator {
	cfg := applyOptions(opts)
	return &exprEvaluator{cache: cfg.cache}
}

func (e *exprEvaluator) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, wrapError("expr", expression, ErrEmptyExpression)
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey("expr", expression)); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return &exprProgram{program: program, expression: expression}, nil
			}
		}
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, wrapError("expr", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(cacheKey("expr", expression), program)
	}
	return &exprProgram{program: program, expression: expression}, nil
}

type exprProgram struct {
	program    *exprvm.Program
	expression string
}

func (p *exprProgram) Expression() string { return p.expression }

func (p *exprProgram) Evaluate(host any) (any, error) {
	out, err := exprlang.Run(p.program, Env(host))
	if err != nil {
		return nil, wrapError("expr", p.expression, err)
	}
	return out, nil
}
