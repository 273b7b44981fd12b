// Package factory builds typed state factories.
//
// A Typed[V] factory hydrates V from the argument bag through a codec
// Transcoder (JSON unless configured otherwise). Use a pointer type for V so
// every reader of a (category, key) pair shares one mutable instance:
//
//	wizard := factory.New[*Wizard](
//	    factory.WithInit[*Wizard](func(host any) (statefor.Args, error) {
//	        return statefor.Args{"step": host.(*Session).StartStep}, nil
//	    }),
//	    factory.WithDefaults[*Wizard](statefor.Args{"step": 1}),
//	)
//	lookup.MustRegisterState("wizard", wizard)
package factory

import (
	"fmt"

	"github.com/unkn0wn-root/statefor"
	"github.com/unkn0wn-root/statefor/codec"
)

// Typed is a statefor.Factory producing V values.
type Typed[V any] struct {
	init     func(host any) (statefor.Args, error)
	defaults statefor.Args
	tc       codec.Transcoder[V]
}

var (
	_ statefor.Factory     = (*Typed[struct{}])(nil)
	_ statefor.Initializer = (*Typed[struct{}])(nil)
)

// Option configures a Typed factory.
type Option[V any] func(*Typed[V])

// WithInit sets the host-sensitive initializer.
func WithInit[V any](fn func(host any) (statefor.Args, error)) Option[V] {
	return func(t *Typed[V]) { t.init = fn }
}

// WithDefaults sets arguments used when the bag does not carry them.
func WithDefaults[V any](args statefor.Args) Option[V] {
	return func(t *Typed[V]) { t.defaults = args }
}

// WithTranscoder replaces the JSON transcoder.
func WithTranscoder[V any](tc codec.Transcoder[V]) Option[V] {
	return func(t *Typed[V]) {
		if tc != nil {
			t.tc = tc
		}
	}
}

func New[V any](opts ...Option[V]) *Typed[V] {
	t := &Typed[V]{tc: codec.JSONTranscoder[V]()}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func (t *Typed[V]) InitialState(host any) (statefor.Args, error) {
	if t.init == nil {
		return nil, nil
	}
	return t.init(host)
}

// Create merges args over the defaults and transcodes the result into V.
func (t *Typed[V]) Create(args statefor.Args) (any, error) {
	bag := make(map[string]any, len(t.defaults)+len(args))
	for k, v := range t.defaults {
		bag[k] = v
	}
	for k, v := range args {
		bag[k] = v
	}
	v, err := t.tc.Transcode(bag)
	if err != nil {
		return nil, fmt.Errorf("factory: build %T: %w", v, err)
	}
	return v, nil
}
