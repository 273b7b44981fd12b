// Package asynchook moves statefor hook calls off the read path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{HitEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	reg := statefor.New(statefor.Options{Hooks: hooks})
//
// Events are dropped when the queue is full; Dropped reports how many.
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/statefor"
)

type Hooks struct {
	inner   statefor.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

var _ statefor.Hooks = (*Hooks)(nil)

func New(inner statefor.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped returns the number of events discarded on a full queue or after Close.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	if h.closed.Load() {
		h.dropped.Add(1)
		return
	}
	defer func() {
		// lost a race with Close: send on closed channel
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) CategoryRegistered(c, n string) { h.try(func() { h.inner.CategoryRegistered(c, n) }) }
func (h *Hooks) FactoryMissing(c, n string)     { h.try(func() { h.inner.FactoryMissing(c, n) }) }
func (h *Hooks) StateHit(c string, k any)       { h.try(func() { h.inner.StateHit(c, k) }) }
func (h *Hooks) RegistryReset(n int)            { h.try(func() { h.inner.RegistryReset(n) }) }
func (h *Hooks) StateConstructed(c string, k any, d time.Duration) {
	h.try(func() { h.inner.StateConstructed(c, k, d) })
}
func (h *Hooks) ConstructFailed(c string, k any, err error) {
	h.try(func() { h.inner.ConstructFailed(c, k, err) })
}
