package versiondb

import "strings"

// KeySep separates the version from each mod in a serialized Key.
const KeySep = ":"

// Key identifies one dataset variant: a game version plus an ordered mod list.
// Mod order matters (it is the load order) and duplicates are kept as given.
type Key struct {
	Version string
	Mods    []string
}

// ParseKey splits raw on ':'. The first segment is the version, the rest are
// mods in order. An empty raw resolves to defaultVersion with no mods.
func ParseKey(raw, defaultVersion string) Key {
	if raw == "" {
		return Key{Version: defaultVersion}
	}
	parts := strings.Split(raw, KeySep)
	k := Key{Version: parts[0]}
	if len(parts) > 1 {
		k.Mods = parts[1:]
	}
	return k
}

// String returns the serialized form: "version" or "version:modA:modB".
func (k Key) String() string {
	if len(k.Mods) == 0 {
		return k.Version
	}
	var b strings.Builder
	n := len(k.Version)
	for _, m := range k.Mods {
		n += len(KeySep) + len(m)
	}
	b.Grow(n)
	b.WriteString(k.Version)
	for _, m := range k.Mods {
		b.WriteString(KeySep)
		b.WriteString(m)
	}
	return b.String()
}

// IsDefault reports whether k is the canonical "no override" key.
func (k Key) IsDefault(defaultVersion string) bool {
	return k.Version == defaultVersion && len(k.Mods) == 0
}

// Encode is String, except the default key encodes to "" so callers can
// omit the query field entirely.
func (k Key) Encode(defaultVersion string) string {
	if k.IsDefault(defaultVersion) {
		return ""
	}
	return k.String()
}

// Clone returns a copy of k that shares no backing array with it.
func (k Key) Clone() Key {
	out := Key{Version: k.Version}
	if len(k.Mods) > 0 {
		out.Mods = append([]string(nil), k.Mods...)
	}
	return out
}
