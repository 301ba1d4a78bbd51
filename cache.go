package versiondb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[D any] struct {
	ds         D
	lastAccess uint64
}

type cache[D any] struct {
	builder  Builder[D]
	log      Logger
	hooks    Hooks
	max      int
	coalesce bool

	versions   []string
	mods       []string
	knownVers  map[string]struct{}
	knownMods  map[string]struct{}
	defaultVer string

	// mu guards entries, counter and every entry's lastAccess.
	// Builders never run while it is held.
	mu      sync.Mutex
	entries map[string]*entry[D]
	counter uint64

	flight singleflight.Group
}

func newCache[D any](opts Options[D]) (*cache[D], error) {
	if opts.Builder == nil {
		return nil, errors.New("versiondb: builder is required")
	}
	if len(opts.Versions) == 0 {
		return nil, errors.New("versiondb: at least one version is required")
	}
	if opts.MaxResident < 0 {
		return nil, fmt.Errorf("versiondb: max resident must be >= 0, got %d", opts.MaxResident)
	}
	knownVers, err := nameSet("version", opts.Versions)
	if err != nil {
		return nil, err
	}
	knownMods, err := nameSet("mod", opts.Mods)
	if err != nil {
		return nil, err
	}

	c := &cache[D]{
		builder:    opts.Builder,
		coalesce:   !opts.DisableCoalescing,
		versions:   append([]string(nil), opts.Versions...),
		mods:       append([]string(nil), opts.Mods...),
		knownVers:  knownVers,
		knownMods:  knownMods,
		defaultVer: opts.Versions[len(opts.Versions)-1],
		entries:    make(map[string]*entry[D]),
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.max = coalesce(opts.MaxResident, DefaultMaxResident)
	return c, nil
}

func nameSet(kind string, names []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" || strings.Contains(n, KeySep) {
			return nil, fmt.Errorf("versiondb: invalid %s name %q", kind, n)
		}
		set[n] = struct{}{}
	}
	return set, nil
}

func (c *cache[D]) DefaultVersion() string { return c.defaultVer }
func (c *cache[D]) Versions() []string     { return append([]string(nil), c.versions...) }
func (c *cache[D]) Mods() []string         { return append([]string(nil), c.mods...) }

func (c *cache[D]) Resolve(raw string) (Key, error) {
	k := ParseKey(raw, c.defaultVer)
	if _, ok := c.knownVers[k.Version]; !ok {
		return Key{}, c.reject(raw, &UnknownVersionError{Version: k.Version, Available: c.Versions()})
	}
	for _, m := range k.Mods {
		if _, ok := c.knownMods[m]; !ok {
			return Key{}, c.reject(raw, &UnknownModError{Mod: m, Available: c.Mods()})
		}
	}
	return k, nil
}

func (c *cache[D]) reject(raw string, err error) error {
	c.log.Warn("rejected dataset key", Fields{"raw": raw, "err": err})
	c.hooks.KeyRejected(raw, err)
	return err
}

func (c *cache[D]) Get(ctx context.Context, raw string) (D, error) {
	var zero D
	k, err := c.Resolve(raw)
	if err != nil {
		return zero, err
	}
	key := k.String()
	if ds, ok := c.touch(key); ok {
		return ds, nil
	}
	if !c.coalesce {
		return c.load(ctx, k, key)
	}

	// The shared build ignores the starting caller's cancellation; each
	// caller stops waiting when its own ctx is done.
	ch := c.flight.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), k, key)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}
	ds, _ := res.Val.(D)
	if res.Shared {
		c.hooks.BuildShared(key)
		// every caller counts as an access, not only the one that built it
		if resident, ok := c.touch(key); ok {
			ds = resident
		}
	}
	return ds, nil
}

// touch bumps key's access order and returns its dataset if resident.
func (c *cache[D]) touch(key string) (D, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero D
		return zero, false
	}
	c.counter++
	e.lastAccess = c.counter
	return e.ds, true
}

func (c *cache[D]) load(ctx context.Context, k Key, key string) (D, error) {
	// a build for key may have finished between the miss and now
	if ds, ok := c.touch(key); ok {
		return ds, nil
	}

	c.log.Info("loading dataset", Fields{"key": key})
	start := time.Now()
	ds, err := c.builder.Build(ctx, k.Version, k.Clone().Mods)
	if err != nil {
		c.log.Warn("dataset build failed", Fields{"key": key, "err": err})
		c.hooks.BuildFailed(key, err)
		var zero D
		return zero, err
	}
	took := time.Since(start)

	ds, inserted := c.insert(key, ds)
	if inserted {
		c.hooks.DatasetLoaded(key, took)
	}
	return ds, nil
}

// insert stores ds under key, evicting the least recently used entry first
// when the cache is full. If another build for key won the race, its dataset
// is kept and returned instead.
func (c *cache[D]) insert(key string, ds D) (D, bool) {
	c.mu.Lock()
	c.counter++
	if e, ok := c.entries[key]; ok {
		e.lastAccess = c.counter
		ds = e.ds
		c.mu.Unlock()
		return ds, false
	}

	var (
		victim   string
		victimAt uint64
		evicted  bool
	)
	if len(c.entries) >= c.max {
		victim, victimAt, evicted = c.oldestLocked()
		if evicted {
			delete(c.entries, victim)
		}
	}
	c.entries[key] = &entry[D]{ds: ds, lastAccess: c.counter}
	c.mu.Unlock()

	if evicted {
		c.log.Info("unloading dataset", Fields{"key": victim, "lastAccess": victimAt})
		c.hooks.DatasetEvicted(victim, victimAt)
	}
	return ds, true
}

// oldestLocked finds the entry with the smallest access order. Access values
// are unique, so there are no ties.
func (c *cache[D]) oldestLocked() (string, uint64, bool) {
	var (
		key   string
		least uint64
		found bool
	)
	for k, e := range c.entries {
		if !found || e.lastAccess < least {
			key, least, found = k, e.lastAccess, true
		}
	}
	return key, least, found
}

func (c *cache[D]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *cache[D]) Keys() []string {
	c.mu.Lock()
	type kv struct {
		key string
		at  uint64
	}
	all := make([]kv, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, kv{k, e.lastAccess})
	}
	c.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.key
	}
	return out
}
