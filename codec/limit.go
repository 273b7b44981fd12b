package codec

import "fmt"

// Limit wraps a Transcoder and rejects argument bags with more than MaxFields
// top-level entries before transcoding. If MaxFields <= 0, limiting is disabled.
//
// Typical use: initializers that copy request or user input into the bag.
type Limit[V any] struct {
	// Inner is the wrapped transcoder. It must be set.
	Inner Transcoder[V]
	// MaxFields is the maximum number of top-level keys accepted.
	MaxFields int
}

func (l Limit[V]) Transcode(args map[string]any) (V, error) {
	if l.MaxFields > 0 && len(args) > l.MaxFields {
		var zero V
		return zero, fmt.Errorf("argument bag too large: %d > %d fields", len(args), l.MaxFields)
	}
	return l.Inner.Transcode(args)
}
