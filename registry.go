package statefor

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/statefor/keyexpr"
)

// Registry maps category names to their caches. A category is registered on its
// first reference and stays registered until Drop or Reset.
type Registry struct {
	ns    string
	log   Logger
	hooks Hooks
	eval  keyexpr.Evaluator

	mu     sync.RWMutex
	caches map[string]*Cache
	gen    atomic.Uint64 // bumped whenever caches are discarded
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry used by bindings that name none.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New(Options{}) })
	return defaultReg
}

// New creates an empty registry.
func New(opts Options) *Registry {
	return &Registry{
		ns:     coalesce(opts.Namespace, DefaultNamespace),
		log:    coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
		eval:   defaultEvaluator(opts.Evaluator),
		caches: make(map[string]*Cache),
	}
}

// CacheFor returns the cache for category, creating it on first use with the
// factory lookup resolves under "<namespace>:<category>".
// Returns *MissingFactoryError (nothing registered) when lookup has no factory.
func (r *Registry) CacheFor(category string, lookup Lookup) (*Cache, error) {
	r.mu.RLock()
	c, ok := r.caches[category]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}
	if lookup == nil {
		return nil, &ConfigurationError{Category: category, Option: "lookup"}
	}

	name := LookupName(r.ns, category)
	f, ok := lookup.Lookup(name)
	if !ok || f == nil {
		r.hooks.FactoryMissing(category, name)
		r.log.Error("no factory registered for category", Fields{"category": category, "name": name})
		return nil, &MissingFactoryError{Category: category, Name: name}
	}

	r.mu.Lock()
	if c, ok := r.caches[category]; ok {
		// lost the race to another first reference
		r.mu.Unlock()
		return c, nil
	}
	c = newCache(category, f, r.log, r.hooks)
	r.caches[category] = c
	r.mu.Unlock()

	r.hooks.CategoryRegistered(category, name)
	r.log.Debug("category registered", Fields{"category": category, "name": name})
	return c, nil
}

// Lookup returns the cache of an already registered category.
func (r *Registry) Lookup(category string) (*Cache, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caches[category]
	return c, ok
}

// Categories returns the registered category names, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.caches))
	for name := range r.caches {
		out = append(out, name)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Drop discards the cache of one category. The next reference re-registers it
// and constructs fresh instances. Reports whether the category was registered.
func (r *Registry) Drop(category string) bool {
	r.mu.Lock()
	_, ok := r.caches[category]
	delete(r.caches, category)
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.gen.Add(1)
	r.hooks.RegistryReset(1)
	r.log.Info("category dropped", Fields{"category": category})
	return true
}

// Reset discards every category cache.
func (r *Registry) Reset() {
	r.mu.Lock()
	n := len(r.caches)
	r.caches = make(map[string]*Cache)
	r.mu.Unlock()

	r.gen.Add(1)
	r.hooks.RegistryReset(n)
	r.log.Info("registry reset", Fields{"categories": n})
}

// Generation changes every time Drop or Reset discards state.
func (r *Registry) Generation() uint64 { return r.gen.Load() }

// Namespace returns the lookup namespace.
func (r *Registry) Namespace() string { return r.ns }
