package statefor

import (
	"fmt"
	"sync"
)

// Factories is a name -> Factory table implementing Lookup.
// Use NewFactories() to create one, then Register or RegisterState.
type Factories struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var _ Lookup = (*Factories)(nil)

// NewFactories creates an empty table.
func NewFactories() *Factories {
	return &Factories{factories: make(map[string]Factory)}
}

// Register stores f under the full lookup name. Registering a name twice is an error.
func (t *Factories) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("statefor: register needs a name and a factory")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.factories[name]; dup {
		return fmt.Errorf("statefor: factory %q already registered", name)
	}
	t.factories[name] = f
	return nil
}

// RegisterState stores f for category under DefaultNamespace.
func (t *Factories) RegisterState(category string, f Factory) error {
	return t.Register(LookupName(DefaultNamespace, category), f)
}

// MustRegisterState is like RegisterState but panics on error.
// Handy for package-level wiring.
func (t *Factories) MustRegisterState(category string, f Factory) *Factories {
	if err := t.RegisterState(category, f); err != nil {
		panic(err)
	}
	return t
}

func (t *Factories) Lookup(name string) (Factory, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.factories[name]
	return f, ok
}

// FactoryFunc adapts a constructor without an initializer.
type FactoryFunc func(args Args) (any, error)

func (f FactoryFunc) Create(args Args) (any, error) { return f(args) }

// Descriptor bundles an optional initializer with a constructor.
type Descriptor struct {
	Init func(host any) (Args, error) // optional
	New  func(args Args) (any, error)
}

func (d Descriptor) InitialState(host any) (Args, error) {
	if d.Init == nil {
		return nil, nil
	}
	return d.Init(host)
}

func (d Descriptor) Create(args Args) (any, error) {
	if d.New == nil {
		return nil, fmt.Errorf("statefor: descriptor has no constructor")
	}
	return d.New(args)
}
