package versiondb

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
)

func TestKeyRoundTrip(t *testing.T) {
	const def = "v3"
	keys := []Key{
		{Version: "v1"},
		{Version: "v3"},
		{Version: "v1", Mods: []string{"modA"}},
		{Version: "v2", Mods: []string{"modB", "modA"}},
		{Version: "v2", Mods: []string{"modA", "modA"}},
	}
	for _, k := range keys {
		got := ParseKey(k.String(), def)
		if !reflect.DeepEqual(got, k) {
			t.Fatalf("round trip %q: got %+v want %+v", k.String(), got, k)
		}
	}
}

func TestParseKey(t *testing.T) {
	k := ParseKey("", "v3")
	if k.Version != "v3" || k.Mods != nil {
		t.Fatalf("empty raw: %+v", k)
	}
	k = ParseKey("v1.2:modA:modB", "v3")
	if k.Version != "v1.2" || !reflect.DeepEqual(k.Mods, []string{"modA", "modB"}) {
		t.Fatalf("parse: %+v", k)
	}
	if s := k.String(); s != "v1.2:modA:modB" {
		t.Fatalf("String=%q", s)
	}
}

func TestKeyEncodeOmitsDefault(t *testing.T) {
	if s := (Key{Version: "v3"}).Encode("v3"); s != "" {
		t.Fatalf("default key encoded as %q", s)
	}
	if s := (Key{Version: "v3", Mods: []string{"modA"}}).Encode("v3"); s != "v3:modA" {
		t.Fatalf("got %q", s)
	}
	if s := (Key{Version: "v1"}).Encode("v3"); s != "v1" {
		t.Fatalf("got %q", s)
	}
}

func TestParseQueryKeepsOrder(t *testing.T) {
	q, err := ParseQuery("?b=2&a=1&&version=v1%3AmodA&flag")
	if err != nil {
		t.Fatal(err)
	}
	want := Query{{"b", "2"}, {"a", "1"}, {"version", "v1:modA"}, {"flag", ""}}
	if !reflect.DeepEqual(q, want) {
		t.Fatalf("got %+v want %+v", q, want)
	}
	if _, err := ParseQuery("a=%zz"); err == nil {
		t.Fatalf("expected unescape error")
	}
}

func TestUpdateQuery(t *testing.T) {
	q, _ := ParseQuery("a=1&b=2")

	got := UpdateQuery("/table/all", q, "b", "")
	if got != "/table/all?a=1" {
		t.Fatalf("remove b: %q", got)
	}
	q, _ = ParseQuery("a=1")
	got = UpdateQuery("/table/all", q, "c", "3")
	if got != "/table/all?a=1&c=3" {
		t.Fatalf("add c: %q", got)
	}

	// an existing field moves to the end
	q, _ = ParseQuery("a=1&b=2&c=3")
	if got := UpdateQuery("/", q, "a", "9"); got != "/?b=2&c=3&a=9" {
		t.Fatalf("replace a: %q", got)
	}

	q, _ = ParseQuery("version=v1")
	if got := UpdateQuery("/units", q, "version", ""); got != "/units" {
		t.Fatalf("empty result should be bare path: %q", got)
	}
}

func TestUpdateQueryEscapesButKeepsColons(t *testing.T) {
	got := UpdateQuery("/", nil, "version", "v1:mod a&b")
	if got != "/?version=v1:mod+a%26b" {
		t.Fatalf("got %q", got)
	}
}

func TestUpdateVersion(t *testing.T) {
	const def = "v3"

	added, err := UpdateVersion("", def, VersionChange{AddMod: "modA"})
	if err != nil || added != "v3:modA" {
		t.Fatalf("add: %q %v", added, err)
	}
	removed, err := UpdateVersion(added, def, VersionChange{RemoveMod: "modA"})
	if err != nil || removed != "" {
		t.Fatalf("remove back to default should clear field: %q %v", removed, err)
	}

	got, err := UpdateVersion("v3:modA:modB", def, VersionChange{Version: "v1"})
	if err != nil || got != "v1:modA:modB" {
		t.Fatalf("version override: %q %v", got, err)
	}
	got, err = UpdateVersion("v1", def, VersionChange{Version: def})
	if err != nil || got != "" {
		t.Fatalf("override to default: %q %v", got, err)
	}
	got, err = UpdateVersion("v1:modA:modB:modA", def, VersionChange{RemoveMod: "modA"})
	if err != nil || got != "v1:modB:modA" {
		t.Fatalf("remove first occurrence: %q %v", got, err)
	}
}

func TestUpdateVersionRemoveMissingMod(t *testing.T) {
	_, err := UpdateVersion("v1:modA", "v3", VersionChange{RemoveMod: "modB"})
	var im *InvalidModError
	if !errors.As(err, &im) || im.Mod != "modB" {
		t.Fatalf("want InvalidModError for modB, got %v", err)
	}
	if !errors.Is(err, ErrInvalidMod) {
		t.Fatalf("InvalidModError must match ErrInvalidMod")
	}
	// the version slot is never treated as a mod
	if _, err := UpdateVersion("v1", "v3", VersionChange{RemoveMod: "v1"}); !errors.Is(err, ErrInvalidMod) {
		t.Fatalf("removing the version slot must fail, got %v", err)
	}
}

func TestLinker(t *testing.T) {
	u, _ := url.Parse("/table/all?cat=air&version=v1:modA")
	l, err := NewLinker(u, "v3")
	if err != nil {
		t.Fatal(err)
	}
	if l.Current() != "v1:modA" {
		t.Fatalf("Current=%q", l.Current())
	}

	got, err := l.Version(VersionChange{AddMod: "modB"})
	if err != nil || got != "/table/all?cat=air&version=v1:modA:modB" {
		t.Fatalf("add mod link: %q %v", got, err)
	}
	got, err = l.Version(VersionChange{Version: "v3", RemoveMod: "modA"})
	if err != nil || got != "/table/all?cat=air" {
		t.Fatalf("back to default link: %q %v", got, err)
	}
	if got := l.Set("cat", "naval"); got != "/table/all?version=v1:modA&cat=naval" {
		t.Fatalf("Set: %q", got)
	}
	if _, err := l.Version(VersionChange{RemoveMod: "nope"}); !errors.Is(err, ErrInvalidMod) {
		t.Fatalf("want ErrInvalidMod, got %v", err)
	}
}
