package unitdb

import (
	"fmt"
	"sort"
)

// UngroupedType is the unit type carried by units no group other than
// OtherGroup claims.
const UngroupedType = "Ungrouped"

// OtherGroup is the catch-all group name; it selects UngroupedType.
const OtherGroup = "other"

// Group is one unit table: a category name, its caption, the column
// headers, and the restriction that selects its units.
type Group struct {
	Name        string
	Caption     string
	Columns     []string
	Restriction string
}

var (
	unitCols    = []string{"Name", "Cost", "DPS", "HP"}
	mobileCols  = []string{"Name", "Cost", "DPS", "HP", "Speed"}
	builderCols = []string{"Name", "Cost", "HP", "Build Rate"}
	econCols    = []string{"Name", "Cost", "HP", "Metal", "Energy"}
	reconCols   = []string{"Name", "Cost", "HP", "Vision", "Radar"}
)

// DefaultGroups are the unit tables in display order.
var DefaultGroups = []Group{
	{"factories", "Factories", builderCols, "Factory - PlanetEngine"},
	{"builders", "Construction Units", builderCols, "Mobile & Construction"},
	{"vehicles", "Vehicles", mobileCols, "Mobile & Tank - Construction"},
	{"bots", "Bots", mobileCols, "Mobile & Bot - Construction"},
	{"air", "Aircraft", mobileCols, "Mobile & Air - Construction"},
	{"naval", "Naval", mobileCols, "Mobile & Naval - Construction"},
	{"orbital", "Orbital", unitCols, "Orbital - Construction - Recon"},
	{"defense", "Defensive Structures", unitCols, "Structure & Defense"},
	{"economy", "Economy", econCols, "Economy - Commander"},
	{"recon", "Reconnaissance", reconCols, "Recon"},
	{OtherGroup, "Other", unitCols, UngroupedType},
}

// FindGroup returns the group called name.
func FindGroup(groups []Group, name string) (Group, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Categorize sets every unit's Category. Groups are applied in order and a
// later match overrides an earlier one. Units matched by no group before
// OtherGroup keep UngroupedType, so OtherGroup picks them up.
func (d *Dataset) Categorize(m Matcher, groups []Group) {
	for _, u := range d.Sorted {
		u.addType(UngroupedType)
	}
	for _, g := range groups {
		for _, u := range d.All(g.Restriction, m) {
			u.Category = g.Name
			if g.Name != OtherGroup {
				u.removeType(UngroupedType)
			}
		}
	}
}

// Group returns the units of the named group, honoring f.
func (d *Dataset) Group(groups []Group, name string, m Matcher, f Filter) ([]*Unit, error) {
	g, ok := FindGroup(groups, name)
	if !ok {
		return nil, fmt.Errorf("unitdb: no such group %q", name)
	}
	return d.Select(g.Restriction, m, f), nil
}

func (u *Unit) addType(t string) {
	i := sort.SearchStrings(u.Types, t)
	if i < len(u.Types) && u.Types[i] == t {
		return
	}
	u.Types = append(u.Types, "")
	copy(u.Types[i+1:], u.Types[i:])
	u.Types[i] = t
}

func (u *Unit) removeType(t string) {
	i := sort.SearchStrings(u.Types, t)
	if i < len(u.Types) && u.Types[i] == t {
		u.Types = append(u.Types[:i], u.Types[i+1:]...)
	}
}
