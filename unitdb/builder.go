package unitdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/unkn0wn-root/versiondb"
	"github.com/unkn0wn-root/versiondb/codec"
	"github.com/unkn0wn-root/versiondb/config"
	"github.com/unkn0wn-root/versiondb/docstore"
	pr "github.com/unkn0wn-root/versiondb/provider"
)

const maxBaseSpecDepth = 16

var ErrNoUnitList = errors.New("unitdb: unit list missing or malformed")

// Builder loads datasets from one docstore per version root and per mod root.
type Builder struct {
	Versions       map[string]*docstore.Store
	Mods           map[string]*docstore.Store
	DefaultVersion string
	Logger         versiondb.Logger // if nil, NopLogger is used

	// Matcher, if set, categorizes every built dataset into Groups
	// (DefaultGroups when nil).
	Matcher Matcher
	Groups  []Group
}

// iconPathFmt takes the UI directory and the unit's safe name.
const iconPathFmt = "/ui/%s/live_game/img/build_bar/units/%s.png"

var iconDirs = []string{"main/game", "alpha"}

var _ versiondb.Builder[*Dataset] = (*Builder)(nil)

// NewBuilder opens every root in cfg as an os.DirFS. All stores share p (may
// be nil) and c, namespaced by version or mod name.
func NewBuilder(cfg *config.Config, p pr.Provider, c codec.Codec[docstore.Document], log versiondb.Logger) (*Builder, error) {
	b := &Builder{
		Versions: make(map[string]*docstore.Store),
		Mods:     make(map[string]*docstore.Store),
		Logger:   log,
	}
	names := cfg.VersionNames()
	b.DefaultVersion = names[len(names)-1]

	open := func(ns, root string) (*docstore.Store, error) {
		return docstore.New(docstore.Options{
			FS:        os.DirFS(root),
			Provider:  p,
			Codec:     c,
			Namespace: ns,
			Logger:    log,
		})
	}
	for name, root := range cfg.VersionRoots() {
		s, err := open("v/"+name, root)
		if err != nil {
			return nil, fmt.Errorf("unitdb: version %s: %w", name, err)
		}
		b.Versions[name] = s
	}
	for name, root := range cfg.ModRoots() {
		s, err := open("m/"+name, root)
		if err != nil {
			return nil, fmt.Errorf("unitdb: mod %s: %w", name, err)
		}
		b.Mods[name] = s
	}
	return b, nil
}

func (b *Builder) logger() versiondb.Logger {
	if b.Logger == nil {
		return versiondb.NopLogger{}
	}
	return b.Logger
}

// Build implements versiondb.Builder. Files are resolved through the mods in
// reverse order (the last mod wins) and then the version root.
func (b *Builder) Build(ctx context.Context, version string, mods []string) (*Dataset, error) {
	layers, err := b.layers(version, mods)
	if err != nil {
		return nil, err
	}

	list, err := load(ctx, layers, UnitListPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUnitList, err)
	}
	paths, ok := stringList(list["units"])
	if !ok {
		return nil, ErrNoUnitList
	}
	listed := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		listed[p] = struct{}{}
	}

	ds := &Dataset{
		Version:      version,
		Mods:         append([]string(nil), mods...),
		Units:        make(map[string]*Unit, len(paths)),
		QueryVersion: versiondb.Key{Version: version, Mods: mods}.Encode(b.DefaultVersion),
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		spec, chain, err := loadSpec(ctx, layers, p, 0)
		if err != nil {
			return nil, fmt.Errorf("unitdb: %s: %w", p, err)
		}
		u := newUnit(p, spec)
		for _, base := range chain {
			if _, ok := listed[base]; ok {
				u.Variant = true
				break
			}
		}
		if u.Health <= 0 || u.BuildCost <= 0 {
			continue
		}
		ds.Units[u.SafeName] = u
	}

	ds.Sorted = make([]*Unit, 0, len(ds.Units))
	for _, u := range ds.Units {
		ds.Sorted = append(ds.Sorted, u)
	}
	sort.Slice(ds.Sorted, func(i, j int) bool {
		a, c := ds.Sorted[i], ds.Sorted[j]
		if a.BuildCost != c.BuildCost {
			return a.BuildCost < c.BuildCost
		}
		return a.SafeName < c.SafeName
	})

	if b.Matcher != nil {
		groups := b.Groups
		if groups == nil {
			groups = DefaultGroups
		}
		ds.Categorize(b.Matcher, groups)
	}

	b.logger().Debug("built unit dataset", versiondb.Fields{
		"version": version, "mods": strings.Join(mods, ","), "units": len(ds.Sorted),
	})
	return ds, nil
}

func (b *Builder) layers(version string, mods []string) ([]*docstore.Store, error) {
	out := make([]*docstore.Store, 0, len(mods)+1)
	for i := len(mods) - 1; i >= 0; i-- {
		s, ok := b.Mods[mods[i]]
		if !ok {
			return nil, fmt.Errorf("unitdb: no data for mod %q", mods[i])
		}
		out = append(out, s)
	}
	s, ok := b.Versions[version]
	if !ok {
		return nil, fmt.Errorf("unitdb: no data for version %q", version)
	}
	return append(out, s), nil
}

// IconPath returns the game path of the build bar icon for the unit named
// safeName, searching the same layers as Build. ok is false when no layer has
// an icon.
func (b *Builder) IconPath(version string, mods []string, safeName string) (string, bool, error) {
	layers, err := b.layers(version, mods)
	if err != nil {
		return "", false, err
	}
	for _, dir := range iconDirs {
		p := fmt.Sprintf(iconPathFmt, dir, safeName)
		for _, s := range layers {
			if s.Exists(p) {
				return p, true, nil
			}
		}
	}
	return "", false, nil
}

// load returns p from the first layer that has it.
func load(ctx context.Context, layers []*docstore.Store, p string) (docstore.Document, error) {
	for _, s := range layers {
		if s.Exists(p) {
			return s.Load(ctx, p)
		}
	}
	return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
}

// loadSpec loads p with its base_spec chain merged in. chain lists the
// base spec paths, nearest first.
func loadSpec(ctx context.Context, layers []*docstore.Store, p string, depth int) (docstore.Document, []string, error) {
	if depth > maxBaseSpecDepth {
		return nil, nil, fmt.Errorf("base_spec chain deeper than %d at %s", maxBaseSpecDepth, p)
	}
	doc, err := load(ctx, layers, p)
	if err != nil {
		return nil, nil, err
	}
	base, _ := doc["base_spec"].(string)
	if base == "" {
		return doc, nil, nil
	}
	parent, chain, err := loadSpec(ctx, layers, base, depth+1)
	if err != nil {
		return nil, nil, err
	}
	return merge(parent, doc), append([]string{base}, chain...), nil
}

// merge returns a new document with child's keys over parent's. Nested
// objects merge recursively; everything else (lists included) is replaced.
func merge(parent, child docstore.Document) docstore.Document {
	out := make(docstore.Document, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		pm, pok := out[k].(map[string]any)
		cm, cok := v.(map[string]any)
		if pok && cok {
			out[k] = merge(pm, cm)
			continue
		}
		out[k] = v
	}
	return out
}

func newUnit(p string, spec docstore.Document) *Unit {
	u := &Unit{
		SafeName:    safeName(p),
		Path:        p,
		Name:        str(spec["display_name"]),
		Description: str(spec["description"]),
		BuildCost:   num(spec["build_metal_cost"]),
		Health:      num(spec["max_health"]),
		Accessible:  true,
	}
	if nav, ok := spec["navigation"].(map[string]any); ok {
		u.MoveSpeed = num(nav["move_speed"])
	}
	types, _ := stringList(spec["unit_types"])
	for _, t := range types {
		t = strings.TrimPrefix(t, "UNITTYPE_")
		if t == "Debug" {
			u.Accessible = false
		}
		u.Types = append(u.Types, t)
	}
	sort.Strings(u.Types)
	if u.Name == "" {
		u.Name = u.SafeName
	}
	return u
}

func num(v any) float64 {
	f, _ := v.(float64)
	return f
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func stringList(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, x := range raw {
		s, ok := x.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
