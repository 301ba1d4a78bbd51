package versiondb

import "context"

// Builder constructs the dataset for one (version, mods) combination.
// It may be slow and may fail; the cache never interprets its errors.
type Builder[D any] interface {
	Build(ctx context.Context, version string, mods []string) (D, error)
}

// BuilderFunc adapts a plain function to Builder.
type BuilderFunc[D any] func(ctx context.Context, version string, mods []string) (D, error)

func (f BuilderFunc[D]) Build(ctx context.Context, version string, mods []string) (D, error) {
	return f(ctx, version, mods)
}

// Cache lazily builds datasets per Key and keeps at most MaxResident of them,
// dropping the least recently used one when a new key must be inserted.
// D is the caller's dataset type (usually a pointer).
type Cache[D any] interface {
	// Get resolves raw ("" => default version, no mods), validates it and
	// returns the resident dataset, building it on first use.
	// Unknown versions/mods fail with an error matching ErrNotFound.
	// Builder errors are returned as-is and nothing is cached.
	Get(ctx context.Context, raw string) (D, error)

	// Resolve parses and validates raw without touching the cache.
	Resolve(raw string) (Key, error)

	DefaultVersion() string
	Versions() []string
	Mods() []string

	// Len is the number of resident datasets.
	Len() int
	// Keys lists resident keys, least recently used first.
	Keys() []string
}

// Options configure a Cache. Versions and Builder are required.
type Options[D any] struct {
	// Known versions in order; the last one is the default (latest).
	Versions []string
	// Known mod names. Order is only used for error messages.
	Mods    []string
	Builder Builder[D]

	MaxResident int    // 0 => DefaultMaxResident
	Logger      Logger // if nil, NopLogger is used
	Hooks       Hooks  // if nil, NopHooks is used

	// DisableCoalescing lets concurrent misses for the same key each run the
	// builder. By default they share one build.
	DisableCoalescing bool
}

func New[D any](opts Options[D]) (Cache[D], error) {
	return newCache[D](opts)
}
