// Package bigcache is a docstore provider backed by allegro/bigcache.
// Entries live in a few large byte shards, which keeps thousands of cached
// unit documents out of the GC's way.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	pr "github.com/unkn0wn-root/versiondb/provider"
)

type Provider struct {
	c *bc.BigCache
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	LifeWindow         time.Duration // 0 => 24h
	CleanWindow        time.Duration
	Shards             int // power of two; 0 => bigcache default (1024)
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Provider, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = 24 * time.Hour
	}
	conf := bc.DefaultConfig(life)
	conf.Verbose = false
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set ignores ttl: BigCache only supports the global LifeWindow.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	if err := p.c.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (p *Provider) Close(_ context.Context) error {
	return p.c.Close()
}
