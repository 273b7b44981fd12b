// Package promhooks exports statefor registry events as Prometheus metrics.
package promhooks

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/statefor"
)

// Hooks records per-category counters and a construction latency histogram.
// Keys are never used as labels.
type Hooks struct {
	categories   *prometheus.CounterVec
	missing      *prometheus.CounterVec
	constructed  *prometheus.CounterVec
	hits         *prometheus.CounterVec
	failures     *prometheus.CounterVec
	resets       prometheus.Counter
	constructDur *prometheus.HistogramVec
}

var _ statefor.Hooks = (*Hooks)(nil)

// New registers the collectors on reg. If reg is nil, the default registerer is
// used. Collectors that are already registered are reused.
func New(reg prometheus.Registerer) (*Hooks, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Hooks{
		categories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statefor_categories_registered_total",
			Help: "Category caches created after a successful factory lookup",
		}, []string{"category"}),
		missing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statefor_factory_missing_total",
			Help: "Category references with no registered factory",
		}, []string{"category"}),
		constructed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statefor_states_constructed_total",
			Help: "State instances built on a cache miss",
		}, []string{"category"}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statefor_state_hits_total",
			Help: "Reads served from an existing state instance",
		}, []string{"category"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statefor_construct_failures_total",
			Help: "Failed state constructions",
		}, []string{"category"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statefor_category_resets_total",
			Help: "Category caches discarded by Drop or Reset",
		}),
		constructDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statefor_construct_duration_seconds",
			Help:    "Time spent in InitialState and Create",
			Buckets: prometheus.DefBuckets,
		}, []string{"category"}),
	}

	var err error
	if h.categories, err = register(reg, h.categories); err != nil {
		return nil, err
	}
	if h.missing, err = register(reg, h.missing); err != nil {
		return nil, err
	}
	if h.constructed, err = register(reg, h.constructed); err != nil {
		return nil, err
	}
	if h.hits, err = register(reg, h.hits); err != nil {
		return nil, err
	}
	if h.failures, err = register(reg, h.failures); err != nil {
		return nil, err
	}
	if h.resets, err = register(reg, h.resets); err != nil {
		return nil, err
	}
	if h.constructDur, err = register(reg, h.constructDur); err != nil {
		return nil, err
	}
	return h, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (h *Hooks) CategoryRegistered(category, _ string) {
	h.categories.WithLabelValues(category).Inc()
}

func (h *Hooks) FactoryMissing(category, _ string) {
	h.missing.WithLabelValues(category).Inc()
}

func (h *Hooks) StateConstructed(category string, _ any, took time.Duration) {
	h.constructed.WithLabelValues(category).Inc()
	h.constructDur.WithLabelValues(category).Observe(took.Seconds())
}

func (h *Hooks) StateHit(category string, _ any) {
	h.hits.WithLabelValues(category).Inc()
}

func (h *Hooks) ConstructFailed(category string, _ any, _ error) {
	h.failures.WithLabelValues(category).Inc()
}

func (h *Hooks) RegistryReset(categories int) {
	h.resets.Add(float64(categories))
}
