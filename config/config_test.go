package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/unkn0wn-root/versiondb"
)

func TestParseAppendsCurrentAndDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`{
		"versions": [{"name": "61450", "root": "/srv/61450"}, {"name": "62264", "root": "/srv/62264"}],
		"pa_root": "/opt/pa/media",
		"mods": [{"name": "balance", "root": "/srv/mods/balance"}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := cfg.VersionNames(); !reflect.DeepEqual(got, []string{"61450", "62264", "current"}) {
		t.Fatalf("versions=%v", got)
	}
	if cfg.VersionRoots()["current"] != "/opt/pa/media" {
		t.Fatalf("current root=%q", cfg.VersionRoots()["current"])
	}
	if got := cfg.ModNames(); !reflect.DeepEqual(got, []string{"balance"}) {
		t.Fatalf("mods=%v", got)
	}
	if cfg.MaxResident() != versiondb.DefaultMaxResident {
		t.Fatalf("MaxResident=%d", cfg.MaxResident())
	}
}

func TestParseRejectsBadConfigs(t *testing.T) {
	bad := map[string]string{
		"empty":    `{}`,
		"colon":    `{"versions":[{"name":"v:1","root":"/x"}]}`,
		"dup":      `{"versions":[{"name":"v1","root":"/x"},{"name":"v1","root":"/y"}]}`,
		"no root":  `{"versions":[{"name":"v1"}]}`,
		"dup mod":  `{"versions":[{"name":"v1","root":"/x"}],"mods":[{"name":"m","root":"/a"},{"name":"m","root":"/b"}]}`,
		"negative": `{"versions":[{"name":"v1","root":"/x"}],"cache_size":-1}`,
		"unknown":  `{"versions":[{"name":"v1","root":"/x"}],"cache":5}`,
		"current":  `{"versions":[{"name":"current","root":"/x"}],"pa_root":"/y"}`,
		"not json": `versions: []`,
	}
	for name, raw := range bad {
		if _, err := Parse(strings.NewReader(raw)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "units.json")
	if err := os.WriteFile(path, []byte(`{"versions":[{"name":"v1","root":"/x"}],"cache_size":3}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxResident() != 3 {
		t.Fatalf("MaxResident=%d want 3", cfg.MaxResident())
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
