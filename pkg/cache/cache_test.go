package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "anml"); hit {
		t.Fatal("empty cache should miss")
	}

	if err := c.Set(ctx, "anml", []byte("<anml/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "anml")
	if err != nil || !hit || string(data) != "<anml/>" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "anml"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "anml"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "anml"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	// Zero TTL never expires
	_ = c.Set(ctx, "forever", []byte("v"), 0)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir should be empty, has %d entries", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestFileCacheCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), 0); err != context.Canceled {
		t.Errorf("Set error = %v, want context.Canceled", err)
	}
	if _, _, err := c.Get(ctx, "k"); err != context.Canceled {
		t.Errorf("Get error = %v, want context.Canceled", err)
	}
}

const dumpA = `digraph { 0 [label="0\n\nSTART\n\n"]; 1 [label="1\n\na\n\n"]; 0 -> 1; }`
const dumpB = `digraph { 0 [label="0\n\nSTART\n\n"]; 1 [label="1\n\nb\n\n"]; 0 -> 1; }`

func TestHashInput(t *testing.T) {
	a := Hash([]byte(dumpA))
	if a != Hash([]byte(dumpA)) {
		t.Error("Hash should be deterministic")
	}
	if a == Hash([]byte(dumpB)) {
		t.Error("dumps with different symbols should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(a))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	h := Hash([]byte(dumpA))
	base := ArtifactKeyOpts{Format: "anml", InputFormat: "dot", NetworkID: "an1", Sentinel: "0", StartKind: "all-input"}

	k1 := k.ArtifactKey(h, base)
	if k1 != k.ArtifactKey(h, base) {
		t.Error("ArtifactKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "artifact:anml:") {
		t.Errorf("ArtifactKey unexpected: %s", k1)
	}

	variants := map[string]ArtifactKeyOpts{}
	o := base
	o.Format = "svg"
	variants["format"] = o
	o = base
	o.Sentinel = "s"
	variants["sentinel"] = o
	o = base
	o.StartKind = "start-of-data"
	variants["start kind"] = o
	o = base
	o.NetworkID = "regex"
	variants["network id"] = o
	o = base
	o.Detailed = true
	variants["detailed"] = o

	for name, opts := range variants {
		if k.ArtifactKey(h, opts) == k1 {
			t.Errorf("changing %s should change the key", name)
		}
	}
	if k.ArtifactKey(Hash([]byte(dumpB)), base) == k1 {
		t.Error("changing the input should change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "v1.0.0:")

	opts := ArtifactKeyOpts{Format: "anml"}
	key := scoped.ArtifactKey("abc", opts)
	if key != "v1.0.0:"+inner.ArtifactKey("abc", opts) {
		t.Errorf("ScopedKeyer ArtifactKey unexpected: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("abc", ArtifactKeyOpts{})
	if !strings.HasPrefix(key, "prefix:artifact:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
