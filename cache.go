package statefor

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Cache maps key values to state instances of one category.
// A missing key is populated on first Get by the category's factory, using the
// host passed to that Get; later reads return the same instance whatever host asks.
// Safe for concurrent use: concurrent first reads of a key construct once.
type Cache struct {
	category string
	factory  Factory
	log      Logger
	hooks    Hooks

	mu      sync.RWMutex
	entries map[any]*entry
}

type entry struct {
	ready chan struct{} // closed once value or err is set
	value any
	err   error

	id        string
	createdAt time.Time
}

// EntryInfo describes a constructed entry. It never exposes the instance.
type EntryInfo struct {
	Key       any
	ID        string
	CreatedAt time.Time
}

func newCache(category string, f Factory, log Logger, hooks Hooks) *Cache {
	return &Cache{
		category: category,
		factory:  f,
		log:      log,
		hooks:    hooks,
		entries:  make(map[any]*entry),
	}
}

// Category returns the category name this cache belongs to.
func (c *Cache) Category() string { return c.category }

// Has reports whether an instance has been constructed for key.
func (c *Cache) Has(key any) bool {
	if !comparableKey(key) {
		return false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	return ok && e.done()
}

// Get returns the instance stored under key, constructing it with host as the
// initializer context when absent. host is ignored on hits and never retained.
func (c *Cache) Get(key, host any) (any, error) {
	if !comparableKey(key) {
		return nil, fmt.Errorf("%w: category %q, key %v (%T)", ErrInvalidKey, c.category, key, key)
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.ready
		if e.err != nil {
			return nil, e.err
		}
		c.hooks.StateHit(c.category, key)
		return e.value, nil
	}
	e := &entry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	return c.construct(key, host, e)
}

func (c *Cache) construct(key, host any, e *entry) (v any, err error) {
	finished := false
	defer func() {
		if finished {
			return
		}
		// factory panicked: release waiters and forget the key
		c.abandon(key, e, fmt.Errorf("statefor: factory for %q panicked", c.category))
	}()

	start := time.Now()
	v, err = buildDefault(c.factory, host)
	finished = true
	if err != nil {
		c.abandon(key, e, err)
		c.hooks.ConstructFailed(c.category, key, err)
		c.log.Warn("state construction failed", Fields{"category": c.category, "key": key, "err": err})
		return nil, err
	}

	e.value = v
	e.id = uuid.NewString()
	e.createdAt = time.Now()
	close(e.ready)

	took := time.Since(start)
	c.hooks.StateConstructed(c.category, key, took)
	c.log.Debug("state constructed", Fields{"category": c.category, "key": key, "id": e.id, "took": took})
	return v, nil
}

func (c *Cache) abandon(key any, e *entry, err error) {
	c.mu.Lock()
	if c.entries[key] == e {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	e.err = err
	close(e.ready)
}

// Len returns the number of constructed entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if e.done() {
			n++
		}
	}
	return n
}

// Entries returns a snapshot of constructed entries (order is unspecified).
func (c *Cache) Entries() []EntryInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]EntryInfo, 0, len(c.entries))
	for k, e := range c.entries {
		if !e.done() {
			continue
		}
		out = append(out, EntryInfo{Key: k, ID: e.id, CreatedAt: e.createdAt})
	}
	return out
}

// done reports a successfully constructed entry without blocking.
func (e *entry) done() bool {
	select {
	case <-e.ready:
		return e.err == nil
	default:
		return false
	}
}

func comparableKey(key any) bool {
	if key == nil {
		return true
	}
	return reflect.ValueOf(key).Comparable()
}
