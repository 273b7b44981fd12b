package statefor

import "time"

// Hooks are callbacks for registry and cache events.
// Implementations MUST be cheap and non-blocking: StateHit runs on every read.
type Hooks interface {
	// A category cache was created after a successful factory lookup.
	CategoryRegistered(category, lookupName string)

	// Lookup found no factory for the category.
	FactoryMissing(category, lookupName string)

	// A state instance was built for a key that had no entry.
	StateConstructed(category string, key any, took time.Duration)

	// A read was served from an existing entry.
	StateHit(category string, key any)

	// InitialState or Create failed; nothing was cached.
	ConstructFailed(category string, key any, err error)

	// Reset or Drop discarded category caches.
	RegistryReset(categories int)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) CategoryRegistered(string, string)           {}
func (NopHooks) FactoryMissing(string, string)               {}
func (NopHooks) StateConstructed(string, any, time.Duration) {}
func (NopHooks) StateHit(string, any)                        {}
func (NopHooks) ConstructFailed(string, any, error)          {}
func (NopHooks) RegistryReset(int)                           {}
