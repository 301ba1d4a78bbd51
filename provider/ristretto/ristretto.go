// Package ristretto is a cost-bounded docstore provider. Cost is the encoded
// document size, so MaxCost is effectively a byte budget.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/versiondb/provider"
)

type Provider struct {
	c    *rc.Cache
	sync bool
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	MaxCost     int64 // byte budget; required
	NumCounters int64 // 0 => MaxCost/100 (about 10x the expected number of ~1KiB docs)
	BufferItems int64 // 0 => 64
	Metrics     bool
	// SyncWrites waits for each Set to be applied so an immediate Get hits.
	// Builds read each file once, so this mostly matters in tests.
	SyncWrites bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.MaxCost <= 0 {
		return nil, errors.New("ristretto: MaxCost must be > 0")
	}
	numCounters := cfg.NumCounters
	if numCounters <= 0 {
		numCounters = max(cfg.MaxCost/100, 1000)
	}
	bufferItems := cfg.BufferItems
	if bufferItems <= 0 {
		bufferItems = 64
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: numCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: bufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c, sync: cfg.SyncWrites}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	ok := p.c.SetWithTTL(key, value, cost, ttl)
	if ok && p.sync {
		p.c.Wait()
	}
	return ok, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto counters (nil unless Config.Metrics is set).
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
