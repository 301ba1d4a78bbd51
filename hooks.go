package versiondb

import "time"

// Hooks are lightweight callbacks for dataset lifecycle events.
// Implementations MUST be cheap and non-blocking; wrap slow sinks with
// hooks/async.
type Hooks interface {
	// A dataset was built and inserted under key.
	DatasetLoaded(key string, took time.Duration)

	// A resident dataset was dropped to make room. lastAccess is its
	// access-order value at eviction time.
	DatasetEvicted(key string, lastAccess uint64)

	// The builder failed for key. Nothing was cached.
	BuildFailed(key string, err error)

	// A raw key named an unknown version or mod.
	KeyRejected(raw string, err error)

	// A caller waited on a build already in flight for key.
	BuildShared(key string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) DatasetLoaded(string, time.Duration) {}
func (NopHooks) DatasetEvicted(string, uint64)       {}
func (NopHooks) BuildFailed(string, error)           {}
func (NopHooks) KeyRejected(string, error)           {}
func (NopHooks) BuildShared(string)                  {}
