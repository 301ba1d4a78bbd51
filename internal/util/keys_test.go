package util

import (
	"strings"
	"testing"
)

func TestDocKeyCleansPath(t *testing.T) {
	a := DocKey("units", "/pa/units/../units/land/dox.json")
	b := DocKey("units", "pa/units/land/dox.json")
	if a != b || a != "doc:units:/pa/units/land/dox.json" {
		t.Fatalf("a=%q b=%q", a, b)
	}
}

func TestDocKeyHashesLongPaths(t *testing.T) {
	long := "/pa/" + strings.Repeat("x", 300) + ".json"
	k := DocKey("units", long)
	if !strings.HasPrefix(k, "doc:units:#") || len(k) != len("doc:units:#")+32 {
		t.Fatalf("unexpected key %q", k)
	}
	if DocKey("units", long) != k {
		t.Fatalf("hash not deterministic")
	}
}
