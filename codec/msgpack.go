package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack is a Codec that serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use. Nested objects decode as map[string]any.
type Msgpack[V any] struct{}

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	return msgpack.Marshal(v)
}
func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
