// Package statefor caches state instances per (category, key) and hands them
// out through bindings, so every reader of the same key gets the same instance.
//
// Components:
//   - Factory: builds instances of one category; an optional Initializer
//     computes construction arguments from the host that triggered the read.
//   - Cache: key -> instance for one category, populated on first Get.
//   - Registry: category -> Cache, created on first reference after resolving
//     the factory through a Lookup under "<namespace>:<category>".
//   - Binding: category + key expression; Resolve evaluates the expression on a
//     host and returns the cached (or freshly built) instance.
//
// Usage:
//
//	factories := statefor.NewFactories().MustRegisterState("wizard", wizardFactory)
//	wizard := statefor.MustFor("wizard", statefor.BindingOptions{
//	    Key:    "user.id",
//	    Lookup: factories,
//	})
//	st, err := wizard.Resolve(session) // same instance for every session of that user
//
// The first read of a key decides its instance: a later read of the same key
// from another host is a plain lookup and never re-runs the initializer.
// Registry.Reset and Registry.Drop discard state explicitly.
package statefor
