// Package codec serializes decoded game-data documents for docstore.
// Every codec must decode what it encodes back to plain JSON shapes:
// map[string]any, []any, string, float64, bool, nil.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
