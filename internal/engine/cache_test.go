package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"collint/internal/rules"
)

func TestCacheRoundTrip(t *testing.T) {
	c := &Cache{dir: t.TempDir()}
	key := Key([]byte("if (items) {}"), "fp")

	if _, ok := c.Get(key); ok {
		t.Fatal("Get on an empty cache reported a hit")
	}

	issues := []rules.Issue{{
		Rule:     "collection-truthiness",
		Severity: rules.Warning,
		Message:  "Array 'items' is always truthy, even when empty",
		File:     "app.js",
		Line:     1,
		Column:   5,
		Kind:     "array",
		Evidence: "exact-name",
		Rewrite:  "items.length > 0",
		Fix: &rules.Fix{
			Description: "safe default",
			Edits:       []rules.Edit{{File: "app.js", Start: 4, End: 9, OldText: "items", NewText: "items.length > 0"}},
		},
	}}
	if err := c.Put(key, issues); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get after Put missed")
	}
	if len(got) != 1 {
		t.Fatalf("got %d issues, want 1", len(got))
	}
	if got[0].Rewrite != "items.length > 0" || got[0].Severity != rules.Warning {
		t.Errorf("issue did not survive the round trip: %+v", got[0])
	}
	if got[0].Fix == nil || got[0].Fix.Edits[0].NewText != "items.length > 0" {
		t.Errorf("fix did not survive the round trip: %+v", got[0].Fix)
	}
}

func TestCacheEmptyResult(t *testing.T) {
	c := &Cache{dir: t.TempDir()}
	key := Key([]byte("const x = 1;"), "fp")

	if err := c.Put(key, nil); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("a clean file's empty result should still hit")
	}
	if len(got) != 0 {
		t.Errorf("got %d issues, want 0", len(got))
	}
}

func TestCacheSchemaMismatch(t *testing.T) {
	c := &Cache{dir: t.TempDir()}
	key := Key([]byte("x"), "fp")

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&cachePayload{Schema: cacheSchema + 1}); err != nil {
		t.Fatal(err)
	}
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get(key); ok {
		t.Error("entry with a different schema reported a hit")
	}
}

func TestCacheCorruptEntry(t *testing.T) {
	c := &Cache{dir: t.TempDir()}
	key := Key([]byte("x"), "fp")

	if err := c.Put(key, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.pathFor(key), []byte("not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("corrupt entry reported a hit")
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if _, ok := c.Get("k"); ok {
		t.Error("nil cache reported a hit")
	}
	if err := c.Put("k", nil); err != nil {
		t.Errorf("nil cache Put() error = %v", err)
	}
}

func TestKey(t *testing.T) {
	a := Key([]byte("src"), "fp")
	if a != Key([]byte("src"), "fp") {
		t.Error("Key is not stable")
	}
	if a == Key([]byte("other"), "fp") {
		t.Error("Key ignores source")
	}
	if a == Key([]byte("src"), "fp2") {
		t.Error("Key ignores fingerprint")
	}
}
