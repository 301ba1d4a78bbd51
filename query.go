package versiondb

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultVersionField is the query field that carries a serialized Key.
const DefaultVersionField = "version"

// Param is a single name=value pair of a query string.
type Param struct {
	Name  string
	Value string
}

// Query is a query string that keeps its fields in their original order.
// url.Values can't be used here: derived links must not reshuffle fields.
type Query []Param

// ParseQuery splits raw (without the leading '?') into ordered params.
// Names and values are unescaped. Empty segments are skipped.
func ParseQuery(raw string) (Query, error) {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return nil, nil
	}
	segs := strings.Split(raw, "&")
	q := make(Query, 0, len(segs))
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		name, value, _ := strings.Cut(seg, "=")
		n, err := url.QueryUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("versiondb: query field %q: %w", name, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("versiondb: query value for %q: %w", n, err)
		}
		q = append(q, Param{Name: n, Value: v})
	}
	return q, nil
}

// Get returns the first value for field, or "" when it is absent.
func (q Query) Get(field string) string {
	for _, p := range q {
		if p.Name == field {
			return p.Value
		}
	}
	return ""
}

// Without returns a copy of q with every occurrence of field removed.
func (q Query) Without(field string) Query {
	out := make(Query, 0, len(q))
	for _, p := range q {
		if p.Name != field {
			out = append(out, p)
		}
	}
	return out
}

// Encode renders q as "a=1&b=2" in its current order.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	parts := make([]string, len(q))
	for i, p := range q {
		parts[i] = escape(p.Name) + "=" + escape(p.Value)
	}
	return strings.Join(parts, "&")
}

// escape query-escapes s but leaves ':' literal so serialized keys stay readable.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%3A", ":")
}

// UpdateQuery returns path plus q with field removed and, when value is not
// empty, re-appended last as field=value. Untouched fields keep their order.
// If nothing is left the bare path is returned.
func UpdateQuery(path string, q Query, field, value string) string {
	next := q.Without(field)
	if value != "" {
		next = append(next, Param{Name: field, Value: value})
	}
	if len(next) == 0 {
		return path
	}
	return path + "?" + next.Encode()
}

// VersionChange describes one edit of a serialized Key. Zero fields are no-ops.
type VersionChange struct {
	Version   string // replaces the version slot
	AddMod    string // appended to the mod list
	RemoveMod string // first occurrence removed from the mod list
}

// UpdateVersion applies ch to the serialized key current and returns the new
// serialized key. An empty current is treated as defaultVersion. Edits apply in
// the order add, remove, version override. When the result is defaultVersion
// without mods, "" is returned so the field can be dropped from the query.
//
// Removing a mod that is not in the list is a caller bug and yields an
// *InvalidModError.
func UpdateVersion(current, defaultVersion string, ch VersionChange) (string, error) {
	k := ParseKey(current, defaultVersion).Clone()
	if ch.AddMod != "" {
		k.Mods = append(k.Mods, ch.AddMod)
	}
	if ch.RemoveMod != "" {
		i := indexOf(k.Mods, ch.RemoveMod)
		if i < 0 {
			return "", &InvalidModError{Mod: ch.RemoveMod, Mods: k.Mods}
		}
		k.Mods = append(k.Mods[:i], k.Mods[i+1:]...)
	}
	if ch.Version != "" {
		k.Version = ch.Version
	}
	return k.Encode(defaultVersion), nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Linker derives navigation links from the current request URL.
// Templates use it to toggle one dimension while keeping the others.
type Linker struct {
	Path           string
	Query          Query
	Field          string // field holding the serialized Key; "" => "version"
	DefaultVersion string
}

// NewLinker builds a Linker for u. The query is parsed once.
func NewLinker(u *url.URL, defaultVersion string) (*Linker, error) {
	q, err := ParseQuery(u.RawQuery)
	if err != nil {
		return nil, err
	}
	return &Linker{Path: u.Path, Query: q, DefaultVersion: defaultVersion}, nil
}

func (l *Linker) field() string {
	return coalesce(l.Field, DefaultVersionField)
}

// Current returns the raw serialized key of the request ("" when absent).
func (l *Linker) Current() string { return l.Query.Get(l.field()) }

// Set returns the current URL with field set to value ("" removes it).
func (l *Linker) Set(field, value string) string {
	return UpdateQuery(l.Path, l.Query, field, value)
}

// Version returns the current URL with the serialized key edited by ch.
func (l *Linker) Version(ch VersionChange) (string, error) {
	v, err := UpdateVersion(l.Current(), l.DefaultVersion, ch)
	if err != nil {
		return "", err
	}
	return l.Set(l.field(), v), nil
}
