package util

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
)

// maxPlainKey bounds keys that are stored verbatim; longer paths are hashed.
const maxPlainKey = 200

// DocKey returns the provider key for a game-data path within namespace ns.
// Paths are cleaned first so "/pa/units/../units/x.json" and
// "/pa/units/x.json" share an entry.
func DocKey(ns, p string) string {
	p = path.Clean("/" + p)
	prefix := "doc:" + ns + ":"
	if len(p) <= maxPlainKey {
		return prefix + p
	}
	sum := sha256.Sum256([]byte(p))
	return prefix + "#" + hex.EncodeToString(sum[:16])
}
