package statefor

import (
	"github.com/unkn0wn-root/statefor/keyexpr"
)

// DefaultNamespace prefixes category names when resolving factories: "state:<category>".
const DefaultNamespace = "state"

// Args is the argument bag handed to Factory.Create.
type Args map[string]any

// Factory produces state instances for one category.
type Factory interface {
	Create(args Args) (any, error)
}

// Initializer is optionally implemented by a Factory whose default arguments
// depend on the host that triggered construction.
// A nil bag is treated as empty.
type Initializer interface {
	InitialState(host any) (Args, error)
}

// Lookup resolves a factory by its namespaced name ("state:wizard").
// Implementations must be idempotent.
type Lookup interface {
	Lookup(name string) (Factory, bool)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(name string) (Factory, bool)

func (f LookupFunc) Lookup(name string) (Factory, bool) { return f(name) }

// LookupProvider is implemented by hosts that carry their own Lookup.
// Bindings without an explicit Lookup fall back to it on every read.
type LookupProvider interface {
	StateLookup() Lookup
}

// Options tune a Registry. Every field is optional.
type Options struct {
	Namespace string            // lookup namespace; "" => DefaultNamespace
	Logger    Logger            // if nil, NopLogger is used
	Hooks     Hooks             // if nil, NopHooks is used
	Evaluator keyexpr.Evaluator // key expression engine for bindings; nil => expr
}

// BindingOptions configure For. Key is required.
type BindingOptions struct {
	Key       string            // key expression evaluated against the host, e.g. "user.id"
	Lookup    Lookup            // optional; otherwise taken from the host (LookupProvider)
	Registry  *Registry         // optional; nil => Default()
	Evaluator keyexpr.Evaluator // optional; nil => the registry's evaluator
}
