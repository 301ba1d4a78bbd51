// Package unitdb builds unit datasets from game data directories. A Builder
// is the versiondb.Builder used in production: it reads the unit list and
// every unit spec for one version, with mods layered on top in order.
package unitdb

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// UnitListPath is the game path of the list of buildable unit specs.
const UnitListPath = "/pa/units/unit_list.json"

type Unit struct {
	SafeName    string // spec file name without extension, e.g. "dox"
	Path        string // game path of the spec
	Name        string
	Description string
	BuildCost   float64
	Health      float64
	MoveSpeed   float64
	Types       []string // unit types without the UNITTYPE_ prefix, sorted

	// Variant is set when the spec derives from another listed unit
	// (commander skins and the like) rather than from a base_ template.
	Variant bool
	// Accessible is false for debug-only units.
	Accessible bool
	// Category is the Group.Name of the table the unit is listed under;
	// empty until the dataset is categorized.
	Category string
}

func (u *Unit) HasType(t string) bool {
	i := sort.SearchStrings(u.Types, t)
	return i < len(u.Types) && u.Types[i] == t
}

type Dataset struct {
	Version string
	Mods    []string
	Units   map[string]*Unit // by SafeName
	Sorted  []*Unit          // by build cost, then SafeName

	// QueryVersion is the value for the "version" query field that selects
	// this dataset; "" for the default version without mods.
	QueryVersion string
}

// Matcher decides whether a unit satisfies a category restriction such as
// "Mobile & Tank - Construction". The restriction grammar lives with the
// caller; unitdb only selects units with it.
type Matcher interface {
	Matches(restriction string, u *Unit) bool
}

type MatcherFunc func(restriction string, u *Unit) bool

func (f MatcherFunc) Matches(restriction string, u *Unit) bool { return f(restriction, u) }

// Filter carries per-request display preferences.
type Filter struct {
	ShowVariants     bool
	ShowInaccessible bool
}

// Select returns matching units in build cost order, hiding variants and
// inaccessible units unless f asks for them.
func (d *Dataset) Select(restriction string, m Matcher, f Filter) []*Unit {
	var out []*Unit
	for _, u := range d.Sorted {
		if !m.Matches(restriction, u) {
			continue
		}
		if u.Variant && !f.ShowVariants {
			continue
		}
		if !u.Accessible && !f.ShowInaccessible {
			continue
		}
		out = append(out, u)
	}
	return out
}

// All is Select with every unit shown.
func (d *Dataset) All(restriction string, m Matcher) []*Unit {
	return d.Select(restriction, m, Filter{ShowVariants: true, ShowInaccessible: true})
}

// TimeString formats seconds as "m:ss".
func TimeString(seconds float64) string {
	v := int(seconds)
	return fmt.Sprintf("%d:%02d", v/60, v%60)
}

func safeName(p string) string {
	return strings.TrimSuffix(path.Base(p), path.Ext(p))
}
