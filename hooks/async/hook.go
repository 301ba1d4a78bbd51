// Package asynchook moves versiondb hook calls off the request path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{RejectEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	dbs, _ := versiondb.New[*unitdb.Dataset](versiondb.Options[*unitdb.Dataset]{
//	    Versions: versions,
//	    Builder:  builder,
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
//
// Events are dropped when the queue is full.
package asynchook

import (
	"sync"
	"time"

	"github.com/unkn0wn-root/versiondb"
)

type Hooks struct {
	inner versiondb.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ versiondb.Hooks = (*Hooks)(nil)

func New(inner versiondb.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Hooks must not be
// called after Close.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) BuildShared(k string)              { h.try(func() { h.inner.BuildShared(k) }) }
func (h *Hooks) BuildFailed(k string, err error)   { h.try(func() { h.inner.BuildFailed(k, err) }) }
func (h *Hooks) KeyRejected(raw string, err error) { h.try(func() { h.inner.KeyRejected(raw, err) }) }
func (h *Hooks) DatasetLoaded(k string, took time.Duration) {
	h.try(func() { h.inner.DatasetLoaded(k, took) })
}
func (h *Hooks) DatasetEvicted(k string, at uint64) {
	h.try(func() { h.inner.DatasetEvicted(k, at) })
}
