package codec

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Protobuf is a Codec for proto messages using the binary wire format.
type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *mypb.Wizard { return &mypb.Wizard{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// ProtoTranscoder builds messages from argument bags: the bag becomes a
// google.protobuf.Struct, rendered as proto JSON and parsed into T, so bag keys
// use the message's JSON field names.
func ProtoTranscoder[T proto.Message](ctor func() T) Transcoder[T] {
	return protoTranscoder[T]{new: ctor}
}

type protoTranscoder[T proto.Message] struct {
	new func() T
}

func (t protoTranscoder[T]) Transcode(args map[string]any) (T, error) {
	m := t.new()
	s, err := structpb.NewStruct(args)
	if err != nil {
		return m, err
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return m, err
	}
	err = protojson.Unmarshal(b, m)
	return m, err
}
