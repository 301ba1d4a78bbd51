// Package sloghooks reports dataset lifecycle events to a *slog.Logger.
package sloghooks

import (
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/unkn0wn-root/versiondb"
)

type Options struct {
	// Sampling to avoid floods from bad links or crawlers; 0/1 = log all.
	RejectEvery uint64
	SharedEvery uint64
	// Optional raw-key redactor applied to rejected keys (they come from
	// untrusted query strings). Defaults to truncation at 64 bytes, backed
	// off to a rune boundary.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	rejectCtr atomic.Uint64
	sharedCtr atomic.Uint64
}

var _ versiondb.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(raw string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(raw)
	}
	const maxRaw = 64
	if len(raw) > maxRaw {
		cut := maxRaw
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		return raw[:cut] + "..."
	}
	return raw
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DatasetLoaded(key string, took time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Info("versiondb.dataset_loaded",
		"key", key,
		"took", took)
}

func (h *Hooks) DatasetEvicted(key string, lastAccess uint64) {
	if h.l == nil {
		return
	}
	h.l.Info("versiondb.dataset_evicted",
		"key", key,
		"last_access", lastAccess)
}

func (h *Hooks) BuildFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("versiondb.build_failed",
		"key", key,
		"err", err)
}

func (h *Hooks) KeyRejected(raw string, err error) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Warn("versiondb.key_rejected",
		"raw", h.redact(raw),
		"err", err)
}

func (h *Hooks) BuildShared(key string) {
	if h.l == nil || !sample(h.opts.SharedEvery, &h.sharedCtr) {
		return
	}
	h.l.Debug("versiondb.build_shared", "key", key)
}
