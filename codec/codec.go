// Package codec converts argument bags into typed state values.
//
// A Codec[V] (de)serializes V <-> []byte. A Transcoder[V] turns the generic
// map[string]any bag produced by an initializer into V by encoding the bag with
// one codec and decoding the bytes with another of the same format.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Transcoder converts an argument bag into V.
type Transcoder[V any] interface {
	Transcode(args map[string]any) (V, error)
}

// Via builds a Transcoder from a bag codec and a value codec.
func Via[V any](bag Codec[map[string]any], value Codec[V]) Transcoder[V] {
	return via[V]{bag: bag, value: value}
}

type via[V any] struct {
	bag   Codec[map[string]any]
	value Codec[V]
}

func (t via[V]) Transcode(args map[string]any) (V, error) {
	b, err := t.bag.Encode(args)
	if err != nil {
		var zero V
		return zero, err
	}
	return t.value.Decode(b)
}

// JSONTranscoder round-trips through encoding/json.
func JSONTranscoder[V any]() Transcoder[V] {
	return Via[V](JSON[map[string]any]{}, JSON[V]{})
}

// MsgpackTranscoder round-trips through msgpack.
func MsgpackTranscoder[V any]() Transcoder[V] {
	return Via[V](Msgpack[map[string]any]{}, Msgpack[V]{})
}

// CBORTranscoder round-trips through CBOR.
func CBORTranscoder[V any]() (Transcoder[V], error) {
	bag, err := NewCBOR[map[string]any](false)
	if err != nil {
		return nil, err
	}
	value, err := NewCBOR[V](false)
	if err != nil {
		return nil, err
	}
	return Via[V](bag, value), nil
}
