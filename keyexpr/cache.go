package keyexpr

import (
	"errors"
	"sync"

	rc "github.com/dgraph-io/ristretto"
)

// MapCache is an unbounded in-process ProgramCache.
type MapCache struct {
	mu sync.RWMutex
	m  map[string]any
}

var _ ProgramCache = (*MapCache)(nil)

func NewMapCache() *MapCache { return &MapCache{m: make(map[string]any)} }

func (c *MapCache) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *MapCache) Set(key string, value any) {
	c.mu.Lock()
	c.m[key] = value
	c.mu.Unlock()
}

// Len returns the number of cached programs.
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// RistrettoCache is a bounded ProgramCache backed by dgraph-io/ristretto.
// Sets are buffered: a program may be compiled twice before it becomes visible.
type RistrettoCache struct {
	c *rc.Cache
}

var _ ProgramCache = (*RistrettoCache)(nil)

type RistrettoConfig struct {
	NumCounters int64 // ~10x the expected number of programs
	MaxCost     int64 // every program costs 1
	BufferItems int64 // 64 is the ristretto recommendation
	Metrics     bool
}

func NewRistrettoCache(cfg RistrettoConfig) (*RistrettoCache, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("keyexpr: invalid ristretto config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoCache{c: c}, nil
}

func (r *RistrettoCache) Get(key string) (any, bool) { return r.c.Get(key) }

func (r *RistrettoCache) Set(key string, value any) { r.c.Set(key, value, 1) }

// Wait blocks until buffered sets are applied.
func (r *RistrettoCache) Wait() { r.c.Wait() }

func (r *RistrettoCache) Close() {
	r.c.Wait()
	r.c.Close()
}

// Metrics exposes ristretto's counters (nil unless enabled in the config).
func (r *RistrettoCache) Metrics() *rc.Metrics { return r.c.Metrics }
