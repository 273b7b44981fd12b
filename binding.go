package statefor

import (
	"fmt"
	"sync"

	"github.com/unkn0wn-root/statefor/keyexpr"
)

// Binding is a derived property yielding the state of one category for the key
// its expression evaluates to on a host. Build it once with For, then read it
// per host with Resolve or Bind.
type Binding struct {
	category string
	key      string
	lookup   Lookup
	registry *Registry
	program  keyexpr.Program
}

// For builds a binding for category. The key option is checked (and compiled)
// here, before any read; the lookup is only checked when the binding is read.
func For(category string, opts BindingOptions) (*Binding, error) {
	if category == "" {
		return nil, &ConfigurationError{Option: "category"}
	}
	if opts.Key == "" {
		return nil, &ConfigurationError{Category: category, Option: "key"}
	}
	reg := opts.Registry
	if reg == nil {
		reg = Default()
	}
	eval := opts.Evaluator
	if eval == nil {
		eval = reg.eval
	}
	prg, err := eval.Compile(opts.Key)
	if err != nil {
		return nil, &ConfigurationError{Category: category, Option: "key", Err: err}
	}
	return &Binding{
		category: category,
		key:      opts.Key,
		lookup:   opts.Lookup,
		registry: reg,
		program:  prg,
	}, nil
}

// MustFor is like For but panics on error.
func MustFor(category string, opts BindingOptions) *Binding {
	b, err := For(category, opts)
	if err != nil {
		panic(err)
	}
	return b
}

// Category returns the bound category name.
func (b *Binding) Category() string { return b.category }

// DependentKey returns the key expression the binding depends on. Host
// integrations recompute the property whenever its value changes.
func (b *Binding) DependentKey() string { return b.key }

// Key evaluates the key expression on host.
func (b *Binding) Key(host any) (any, error) {
	v, err := b.program.Evaluate(host)
	if err != nil {
		return nil, fmt.Errorf("statefor: evaluate key %q: %w", b.key, err)
	}
	return v, nil
}

// Resolve returns the state instance for the key host currently yields.
func (b *Binding) Resolve(host any) (any, error) {
	if _, err := b.lookupFor(host); err != nil {
		return nil, err
	}
	key, err := b.Key(host)
	if err != nil {
		return nil, err
	}
	return b.ResolveKey(host, key)
}

// ResolveKey returns the state instance for an already evaluated key, with host
// as construction context.
func (b *Binding) ResolveKey(host, key any) (any, error) {
	lookup, err := b.lookupFor(host)
	if err != nil {
		return nil, err
	}
	c, err := b.registry.CacheFor(b.category, lookup)
	if err != nil {
		return nil, err
	}
	return c.Get(key, host)
}

func (b *Binding) lookupFor(host any) (Lookup, error) {
	if b.lookup != nil {
		return b.lookup, nil
	}
	if lp, ok := host.(LookupProvider); ok {
		if l := lp.StateLookup(); l != nil {
			return l, nil
		}
	}
	return nil, &ConfigurationError{Category: b.category, Option: "lookup"}
}

// Bind installs the binding on host and returns the derived property.
func (b *Binding) Bind(host any) *Property {
	return &Property{binding: b, host: host}
}

// Property is a binding installed on one host. It memoizes the last instance
// and recomputes when the key changes, after Invalidate, or after the registry
// discarded state.
type Property struct {
	binding *Binding
	host    any

	mu    sync.Mutex
	valid bool
	key   any
	gen   uint64
	value any
}

// Get returns the current value of the property.
func (p *Property) Get() (any, error) {
	if _, err := p.binding.lookupFor(p.host); err != nil {
		return nil, err
	}
	key, err := p.binding.Key(p.host)
	if err != nil {
		return nil, err
	}
	if !comparableKey(key) {
		return nil, fmt.Errorf("%w: category %q, key %v (%T)", ErrInvalidKey, p.binding.category, key, key)
	}

	gen := p.binding.registry.Generation()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.valid && p.gen == gen && p.key == key {
		return p.value, nil
	}
	v, err := p.binding.ResolveKey(p.host, key)
	if err != nil {
		p.valid = false
		return nil, err
	}
	p.valid, p.key, p.gen, p.value = true, key, gen, v
	return v, nil
}

// Invalidate marks the memoized value stale; the next Get recomputes.
func (p *Property) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.value = nil
	p.mu.Unlock()
}

// Host returns the object the property is installed on.
func (p *Property) Host() any { return p.host }
