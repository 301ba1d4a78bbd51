// Package docstore loads game-data JSON documents and keeps their decoded form
// in a byte provider, so building datasets for several versions and mod sets
// doesn't re-parse the files they share.
//
// Each cached entry is framed with the source file's size and modification
// time. A Load whose file no longer matches the frame is a miss, and the
// stale entry is deleted.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/versiondb"
	"github.com/unkn0wn-root/versiondb/codec"
	"github.com/unkn0wn-root/versiondb/internal/util"
	"github.com/unkn0wn-root/versiondb/internal/wire"
	pr "github.com/unkn0wn-root/versiondb/provider"
)

const (
	defaultNamespace   = "docs"
	defaultMaxDocBytes = 16 << 20
)

// ErrTooLarge is returned for files above Options.MaxDocBytes.
var ErrTooLarge = errors.New("docstore: document too large")

// Document is a decoded JSON object.
type Document = map[string]any

type Options struct {
	FS fs.FS // required; paths passed to Load are resolved inside it

	Provider  pr.Provider           // nil => nothing is cached
	Codec     codec.Codec[Document] // nil => codec.JSON
	Namespace string                // "" => "docs"
	TTL       time.Duration         // provider TTL; 0 => no expiry

	MaxDocBytes int64            // 0 => 16 MiB
	Logger      versiondb.Logger // if nil, NopLogger is used
}

// Stats are cumulative counters since New.
type Stats struct {
	Hits   uint64
	Misses uint64
	Healed uint64 // corrupt or stale entries deleted on read
}

type Store struct {
	fsys     fs.FS
	provider pr.Provider
	codec    codec.Codec[Document]
	ns       string
	ttl      time.Duration
	maxBytes int64
	log      versiondb.Logger

	hits, misses, healed atomic.Uint64
}

func New(opts Options) (*Store, error) {
	if opts.FS == nil {
		return nil, errors.New("docstore: FS is required")
	}
	s := &Store{
		fsys:     opts.FS,
		provider: opts.Provider,
		ttl:      opts.TTL,
	}
	s.codec = opts.Codec
	if s.codec == nil {
		s.codec = codec.JSON[Document]{}
	}
	s.ns = opts.Namespace
	if s.ns == "" {
		s.ns = defaultNamespace
	}
	s.maxBytes = opts.MaxDocBytes
	if s.maxBytes <= 0 {
		s.maxBytes = defaultMaxDocBytes
	}
	s.log = opts.Logger
	if s.log == nil {
		s.log = versiondb.NopLogger{}
	}
	return s, nil
}

// fsPath turns a game path ("/pa/units/x.json") into an fs.FS name.
func fsPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Exists reports whether p names a regular file.
func (s *Store) Exists(p string) bool {
	fi, err := fs.Stat(s.fsys, fsPath(p))
	return err == nil && fi.Mode().IsRegular()
}

// Load returns the decoded document at p. A missing file yields an error
// matching fs.ErrNotExist.
func (s *Store) Load(ctx context.Context, p string) (Document, error) {
	name := fsPath(p)
	fi, err := fs.Stat(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("docstore: %s is not a regular file", p)
	}
	if fi.Size() > s.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, p, fi.Size())
	}
	st := wire.Stamp{Size: fi.Size(), ModTime: fi.ModTime().UnixNano()}
	key := util.DocKey(s.ns, name)

	if s.provider != nil {
		if doc, ok := s.cached(ctx, key, st); ok {
			s.hits.Add(1)
			return doc, nil
		}
	}
	s.misses.Add(1)

	raw, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: parse %s: %w", p, err)
	}
	if s.provider != nil {
		s.store(ctx, key, st, doc)
	}
	return doc, nil
}

func (s *Store) cached(ctx context.Context, key string, want wire.Stamp) (Document, bool) {
	raw, ok, err := s.provider.Get(ctx, key)
	if err != nil {
		s.log.Warn("docstore get failed", versiondb.Fields{"key": key, "err": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	st, payload, err := wire.DecodeDoc(raw)
	if err != nil {
		s.heal(ctx, key, "corrupt")
		return nil, false
	}
	if st != want {
		s.heal(ctx, key, "stale")
		return nil, false
	}
	doc, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, key, "value_decode")
		return nil, false
	}
	return doc, true
}

func (s *Store) heal(ctx context.Context, key, reason string) {
	s.healed.Add(1)
	_ = s.provider.Del(ctx, key)
	s.log.Debug("docstore dropped cached document", versiondb.Fields{"key": key, "reason": reason})
}

func (s *Store) store(ctx context.Context, key string, st wire.Stamp, doc Document) {
	payload, err := s.codec.Encode(doc)
	if err != nil {
		s.log.Warn("docstore encode failed", versiondb.Fields{"key": key, "err": err})
		return
	}
	framed := wire.EncodeDoc(st, payload)
	ok, err := s.provider.Set(ctx, key, framed, int64(len(framed)), s.ttl)
	if err != nil {
		s.log.Warn("docstore set failed", versiondb.Fields{"key": key, "err": err})
		return
	}
	if !ok {
		s.log.Debug("docstore set rejected by provider (pressure)", versiondb.Fields{"key": key})
	}
}

// Invalidate drops the cached entry for p, if any.
func (s *Store) Invalidate(ctx context.Context, p string) error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Del(ctx, util.DocKey(s.ns, fsPath(p)))
}

func (s *Store) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load(), Healed: s.healed.Load()}
}

// Close closes the provider.
func (s *Store) Close(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Close(ctx)
}
