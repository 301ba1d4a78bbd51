// Package provider defines the byte store used by docstore to keep decoded
// game-data documents between dataset builds.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key.
//
// The keyspace "doc:<ns>:" is owned by docstore. Foreign writes under it are
// treated as corruption and deleted.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (<= 0 means no expiry). May ignore
	// cost if unsupported. Returns ok=false when the store rejected the write
	// under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	Close(ctx context.Context) error
}
