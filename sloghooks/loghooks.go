// Package sloghooks reports statefor registry events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/statefor"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery       uint64
	ConstructEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix of the formatted key.
	Redact func(key any) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr       atomic.Uint64
	constructCtr atomic.Uint64
}

var _ statefor.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k any) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(fmt.Sprint(k)))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CategoryRegistered(category, lookupName string) {
	if h.l == nil {
		return
	}
	h.l.Info("statefor.category_registered",
		"category", category,
		"lookup", lookupName)
}

func (h *Hooks) FactoryMissing(category, lookupName string) {
	if h.l == nil {
		return
	}
	h.l.Error("statefor.factory_missing",
		"category", category,
		"lookup", lookupName)
}

func (h *Hooks) StateConstructed(category string, key any, took time.Duration) {
	if h.l == nil || !sample(h.opts.ConstructEvery, &h.constructCtr) {
		return
	}
	h.l.Debug("statefor.state_constructed",
		"category", category,
		"key", h.redact(key),
		"took", took)
}

func (h *Hooks) StateHit(category string, key any) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("statefor.state_hit",
		"category", category,
		"key", h.redact(key))
}

func (h *Hooks) ConstructFailed(category string, key any, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("statefor.construct_failed",
		"category", category,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) RegistryReset(categories int) {
	if h.l == nil {
		return
	}
	h.l.Info("statefor.registry_reset",
		"categories", categories)
}
