package bigcache

import (
	"bytes"
	"context"
	"testing"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{Shards: 16, MaxEntriesInWindow: 128, MaxEntrySize: 256})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(ctx) })

	if _, ok, err := p.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("miss expected, ok=%v err=%v", ok, err)
	}

	val := []byte{0xA1, 0x61, 0x61, 0x01}
	if ok, err := p.Set(ctx, "k", val, 0, 0); err != nil || !ok {
		t.Fatalf("Set ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, val) {
		t.Fatalf("Get ok=%v err=%v got=%x", ok, err, got)
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	// deleting twice is not an error
	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("second Del: %v", err)
	}
}
