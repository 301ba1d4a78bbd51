package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// StructPB stores a JSON-shaped document as a google.protobuf.Struct.
// Numbers come back as float64, which matches encoding/json.
type StructPB struct{}

var _ Codec[map[string]any] = StructPB{}

func (StructPB) Encode(m map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s)
}

func (StructPB) Decode(b []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return s.AsMap(), nil
}
