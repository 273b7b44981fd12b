package keyexpr

import (
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
)

// celEvaluator compiles key expressions with github.com/google/cel-go.
// CEL needs declared variables, so Compile only parses; the checked program is
// built per distinct variable set on first evaluation and cached.
type celEvaluator struct {
	cache ProgramCache
	base  *celgo.Env
}

// NewCEL constructs an Evaluator backed by cel-go. Host values reached by the
// expression should be maps, lists or scalars.
func NewCEL(opts ...Option) (Evaluator, error) {
	cfg := applyOptions(opts)
	base, err := celgo.NewEnv()
	if err != nil {
		return nil, err
	}
	return &celEvaluator{cache: cfg.cache, base: base}, nil
}

func (e *celEvaluator) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, wrapError("cel", expression, ErrEmptyExpression)
	}
	if _, issues := e.base.Parse(expression); issues != nil && issues.Err() != nil {
		return nil, wrapError("cel", expression, issues.Err())
	}
	return &celProgram{evaluator: e, expression: expression}, nil
}

type celProgram struct {
	evaluator  *celEvaluator
	expression string
}

func (p *celProgram) Expression() string { return p.expression }

func (p *celProgram) Evaluate(host any) (any, error) {
	env := Env(host)
	prg, err := p.evaluator.loadOrCompile(p.expression, env)
	if err != nil {
		return nil, wrapError("cel", p.expression, err)
	}
	out, _, err := prg.Eval(env)
	if err != nil {
		return nil, wrapError("cel", p.expression, err)
	}
	return out.Value(), nil
}

func (e *celEvaluator) loadOrCompile(expression string, env map[string]any) (celgo.Program, error) {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	key := cacheKey("cel", expression+"|"+strings.Join(names, ","))

	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if prg, ok := cached.(celgo.Program); ok {
				return prg, nil
			}
		}
	}

	decls := make([]celgo.EnvOption, 0, len(names))
	for _, name := range names {
		decls = append(decls, celgo.Variable(name, celgo.DynType))
	}
	env2, err := e.base.Extend(decls...)
	if err != nil {
		return nil, err
	}
	ast, issues := env2.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env2.Program(ast)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, prg)
	}
	return prg, nil
}
