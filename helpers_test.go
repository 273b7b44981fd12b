package statefor

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

type wizard struct {
	Step int
}

type session struct {
	User      string
	StartStep int

	lookup Lookup
}

func (s *session) StateLookup() Lookup { return s.lookup }

// wizardFactory builds *wizard from the host's StartStep and records every call.
type wizardFactory struct {
	creates atomic.Int32

	mu    sync.Mutex
	hosts []any
}

func (f *wizardFactory) InitialState(host any) (Args, error) {
	f.mu.Lock()
	f.hosts = append(f.hosts, host)
	f.mu.Unlock()
	if s, ok := host.(*session); ok {
		return Args{"step": s.StartStep}, nil
	}
	return nil, nil
}

func (f *wizardFactory) Create(args Args) (any, error) {
	f.creates.Add(1)
	step, _ := args["step"].(int)
	return &wizard{Step: step}, nil
}

func (f *wizardFactory) initHosts() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.hosts...)
}

// countingLookup serves factories by full name and counts lookups.
type countingLookup struct {
	calls     atomic.Int32
	factories map[string]Factory
}

func newLookup(byName map[string]Factory) *countingLookup {
	return &countingLookup{factories: byName}
}

func (l *countingLookup) Lookup(name string) (Factory, bool) {
	l.calls.Add(1)
	f, ok := l.factories[name]
	return f, ok
}

var errBoom = errors.New("boom")

type recordingHooks struct {
	mu          sync.Mutex
	registered  []string
	missing     []string
	constructed []any
	hits        []any
	failed      []error
	resets      []int
}

func (h *recordingHooks) CategoryRegistered(c, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registered = append(h.registered, c)
}

func (h *recordingHooks) FactoryMissing(c, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.missing = append(h.missing, c)
}

func (h *recordingHooks) StateConstructed(_ string, k any, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.constructed = append(h.constructed, k)
}

func (h *recordingHooks) StateHit(_ string, k any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits = append(h.hits, k)
}

func (h *recordingHooks) ConstructFailed(_ string, _ any, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed = append(h.failed, err)
}

func (h *recordingHooks) RegistryReset(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resets = append(h.resets, n)
}
