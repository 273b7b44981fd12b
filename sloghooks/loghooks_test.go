package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestHooks(opts Options) (*Hooks, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(l, opts), &buf
}

func TestHooksRedactKeys(t *testing.T) {
	h, buf := newTestHooks(Options{})
	h.StateConstructed("wizard", "alice@example.com", time.Millisecond)
	h.ConstructFailed("wizard", "alice@example.com", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "alice") {
		t.Fatalf("raw key logged: %s", out)
	}
	if !strings.Contains(out, "statefor.state_constructed") || !strings.Contains(out, "statefor.construct_failed") {
		t.Fatalf("missing events: %s", out)
	}
}

func TestHooksCustomRedact(t *testing.T) {
	h, buf := newTestHooks(Options{Redact: func(k any) string { return "k-" + k.(string) }})
	h.StateHit("wizard", "42")
	if !strings.Contains(buf.String(), "key=k-42") {
		t.Fatalf("custom redactor not used: %s", buf.String())
	}
}

func TestHooksSampling(t *testing.T) {
	h, buf := newTestHooks(Options{HitEvery: 3})
	for i := 0; i < 9; i++ {
		h.StateHit("wizard", i)
	}
	if n := strings.Count(buf.String(), "statefor.state_hit"); n != 3 {
		t.Fatalf("logged %d hits, want 3", n)
	}
}

func TestHooksNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.CategoryRegistered("wizard", "state:wizard")
	h.FactoryMissing("wizard", "state:wizard")
	h.StateConstructed("wizard", 1, 0)
	h.StateHit("wizard", 1)
	h.ConstructFailed("wizard", 1, errors.New("x"))
	h.RegistryReset(1)
}
