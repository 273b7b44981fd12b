package statefor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestCache(f Factory) *Cache {
	return newCache("wizard", f, NopLogger{}, NopHooks{})
}

// TestCacheConstructsOncePerKey verifies repeated reads return the same
// instance and the factory runs once.
func TestCacheConstructsOncePerKey(t *testing.T) {
	f := &wizardFactory{}
	c := newTestCache(f)
	host := &session{StartStep: 3}

	if c.Has("userA") {
		t.Fatalf("Has before first Get should be false")
	}
	first, err := c.Get("userA", host)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := c.Get("userA", host)
		if err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
		if got != first {
			t.Fatalf("Get #%d returned a different instance", i)
		}
	}
	if n := f.creates.Load(); n != 1 {
		t.Fatalf("Create calls = %d, want 1", n)
	}
	if !c.Has("userA") || c.Len() != 1 {
		t.Fatalf("Has=%v Len=%d, want true/1", c.Has("userA"), c.Len())
	}
}

// TestCacheIgnoresHostOnHit checks that only the first reader's host feeds the initializer.
func TestCacheIgnoresHostOnHit(t *testing.T) {
	f := &wizardFactory{}
	c := newTestCache(f)
	hostA := &session{StartStep: 1}
	hostB := &session{StartStep: 99}

	a, err := c.Get("userA", hostA)
	if err != nil {
		t.Fatalf("Get A: %v", err)
	}
	b, err := c.Get("userA", hostB)
	if err != nil {
		t.Fatalf("Get B: %v", err)
	}
	if a != b {
		t.Fatalf("same key returned different instances")
	}
	if step := b.(*wizard).Step; step != 1 {
		t.Fatalf("step = %d, want 1 (from first host)", step)
	}
	hosts := f.initHosts()
	if len(hosts) != 1 || hosts[0] != hostA {
		t.Fatalf("initializer hosts = %v, want only hostA", hosts)
	}
}

func TestCacheDistinctKeys(t *testing.T) {
	c := newTestCache(&wizardFactory{})
	host := &session{}

	a, _ := c.Get("userA", host)
	b, _ := c.Get("userB", host)
	if a == b {
		t.Fatalf("distinct keys share an instance")
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestCacheNilAndNonStringKeys(t *testing.T) {
	c := newTestCache(&wizardFactory{})
	type compound struct {
		Tenant string
		ID     int
	}

	for _, key := range []any{nil, 42, compound{"t", 1}} {
		v1, err := c.Get(key, nil)
		if err != nil {
			t.Fatalf("Get(%v): %v", key, err)
		}
		v2, _ := c.Get(key, nil)
		if v1 != v2 {
			t.Fatalf("key %v: instances differ", key)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
}

func TestCacheRejectsUncomparableKey(t *testing.T) {
	f := &wizardFactory{}
	c := newTestCache(f)

	_, err := c.Get([]string{"a"}, nil)
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("err = %v, want ErrInvalidKey", err)
	}
	if c.Has([]string{"a"}) {
		t.Fatalf("Has on uncomparable key should be false")
	}
	if f.creates.Load() != 0 {
		t.Fatalf("factory should not run for an invalid key")
	}
}

// TestCacheFailedConstructionLeavesNoEntry ensures factory errors pass through
// untouched and the next read tries again.
func TestCacheFailedConstructionLeavesNoEntry(t *testing.T) {
	fail := true
	calls := 0
	c := newTestCache(FactoryFunc(func(Args) (any, error) {
		calls++
		if fail {
			return nil, errBoom
		}
		return &wizard{}, nil
	}))

	_, err := c.Get("k", nil)
	if err != errBoom {
		t.Fatalf("err = %v, want errBoom unchanged", err)
	}
	if c.Has("k") || c.Len() != 0 {
		t.Fatalf("failed construction left an entry")
	}

	fail = false
	v, err := c.Get("k", nil)
	if err != nil || v == nil {
		t.Fatalf("retry: v=%v err=%v", v, err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestCacheInitializerErrorSkipsCreate(t *testing.T) {
	created := false
	c := newTestCache(Descriptor{
		Init: func(any) (Args, error) { return nil, errBoom },
		New: func(Args) (any, error) {
			created = true
			return &wizard{}, nil
		},
	})
	if _, err := c.Get("k", nil); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want errBoom", err)
	}
	if created {
		t.Fatalf("Create ran after InitialState failed")
	}
}

func TestCachePanicReleasesKey(t *testing.T) {
	panicky := true
	c := newTestCache(FactoryFunc(func(Args) (any, error) {
		if panicky {
			panic("factory exploded")
		}
		return &wizard{Step: 7}, nil
	}))

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_, _ = c.Get("k", nil)
	}()
	if c.Has("k") {
		t.Fatalf("panicked construction left an entry")
	}

	panicky = false
	v, err := c.Get("k", nil)
	if err != nil || v.(*wizard).Step != 7 {
		t.Fatalf("after panic: v=%v err=%v", v, err)
	}
}

// TestCacheConcurrentFirstReads races many readers on one cold key.
func TestCacheConcurrentFirstReads(t *testing.T) {
	f := &wizardFactory{}
	slow := Descriptor{
		Init: f.InitialState,
		New: func(a Args) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return f.Create(a)
		},
	}
	c := newTestCache(slow)

	const readers = 32
	results := make([]any, readers)
	var wg sync.WaitGroup
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := c.Get("hot", &session{StartStep: i})
			if err != nil {
				t.Errorf("reader %d: %v", i, err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if n := f.creates.Load(); n != 1 {
		t.Fatalf("Create calls = %d, want 1", n)
	}
	for i := 1; i < readers; i++ {
		if results[i] != results[0] {
			t.Fatalf("reader %d got a different instance", i)
		}
	}
}

func TestCacheEntries(t *testing.T) {
	c := newTestCache(&wizardFactory{})
	before := time.Now()
	_, _ = c.Get("userA", nil)

	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Key != "userA" {
		t.Fatalf("key = %v, want userA", e.Key)
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Fatalf("entry id %q is not a uuid: %v", e.ID, err)
	}
	if e.CreatedAt.Before(before) {
		t.Fatalf("CreatedAt %v before read start %v", e.CreatedAt, before)
	}
}

func TestCacheHooks(t *testing.T) {
	h := &recordingHooks{}
	c := newCache("wizard", &wizardFactory{}, NopLogger{}, h)

	_, _ = c.Get("a", nil)
	_, _ = c.Get("a", nil)
	_, _ = c.Get([]int{1}, nil)

	if len(h.constructed) != 1 || h.constructed[0] != "a" {
		t.Fatalf("constructed = %v, want [a]", h.constructed)
	}
	if len(h.hits) != 1 {
		t.Fatalf("hits = %v, want 1", h.hits)
	}
}
