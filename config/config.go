// Package config loads the process-lifetime settings: which game versions and
// mods exist, where their data lives, and how many datasets stay resident.
//
//	{
//	  "versions": [{"name": "62264", "root": "/srv/pa/62264"}],
//	  "pa_root": "/opt/pa/media",
//	  "mods": [{"name": "balance", "root": "/srv/mods/balance"}],
//	  "cache_size": 50
//	}
//
// When pa_root is set a version named "current" is appended; it is then the
// default (latest) version.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/unkn0wn-root/versiondb"
)

// CurrentVersion names the live install configured by pa_root.
const CurrentVersion = "current"

type Source struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

type Config struct {
	Versions  []Source `json:"versions"`
	PARoot    string   `json:"pa_root,omitempty"`
	Mods      []Source `json:"mods"`
	CacheSize int      `json:"cache_size,omitempty"`
}

// Load reads and validates the JSON config at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Versions) == 0 && c.PARoot == "" {
		return errors.New("no versions configured (need versions or pa_root)")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0, got %d", c.CacheSize)
	}
	if err := checkSources("version", c.versionSources()); err != nil {
		return err
	}
	return checkSources("mod", c.Mods)
}

func checkSources(kind string, srcs []Source) error {
	seen := make(map[string]struct{}, len(srcs))
	for _, s := range srcs {
		switch {
		case s.Name == "":
			return fmt.Errorf("%s with empty name", kind)
		case strings.Contains(s.Name, versiondb.KeySep):
			return fmt.Errorf("%s %q: name must not contain %q", kind, s.Name, versiondb.KeySep)
		case s.Root == "":
			return fmt.Errorf("%s %q: root is required", kind, s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate %s %q", kind, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

func (c *Config) versionSources() []Source {
	out := append([]Source(nil), c.Versions...)
	if c.PARoot != "" {
		out = append(out, Source{Name: CurrentVersion, Root: c.PARoot})
	}
	return out
}

// VersionNames lists known versions in order; the last one is the default.
func (c *Config) VersionNames() []string { return names(c.versionSources()) }

func (c *Config) ModNames() []string { return names(c.Mods) }

func (c *Config) VersionRoots() map[string]string { return roots(c.versionSources()) }

func (c *Config) ModRoots() map[string]string { return roots(c.Mods) }

// MaxResident is cache_size, or versiondb.DefaultMaxResident when unset.
func (c *Config) MaxResident() int {
	if c.CacheSize == 0 {
		return versiondb.DefaultMaxResident
	}
	return c.CacheSize
}

func names(srcs []Source) []string {
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = s.Name
	}
	return out
}

func roots(srcs []Source) map[string]string {
	out := make(map[string]string, len(srcs))
	for _, s := range srcs {
		out[s.Name] = s.Root
	}
	return out
}
