package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"collint/internal/rules"
)

// cacheSchema is bumped whenever the payload layout changes; entries with
// another schema read as misses and get rewritten.
const cacheSchema uint16 = 1

// Cache stores per-file lint results on disk, keyed by file content and
// run fingerprint. A nil *Cache is a valid no-op cache. Safe for
// concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// cachePayload is the on-disk form of one file's results.
type cachePayload struct {
	Schema uint16
	Issues []rules.Issue
}

// OpenCache initializes the cache at the standard user location.
func OpenCache() (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "collint")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Key derives the cache key for one file's content under a fingerprint.
func Key(source []byte, fingerprint string) string {
	h := sha256.New()
	h.Write(source)
	_, _ = io.WriteString(h, fingerprint)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, "results", key+".mp")
}

// Get reads cached results. Any failure is a miss; the cache is
// best-effort.
func (c *Cache) Get(key string) ([]rules.Issue, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer func() { _ = f.Close() }()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchema {
		return nil, false
	}
	return payload.Issues, true
}

// Put writes one file's results.
func (c *Cache) Put(key string, issues []rules.Issue) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(&cachePayload{Schema: cacheSchema, Issues: issues}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic swap keeps concurrent readers off partial writes.
	return os.Rename(f.Name(), p)
}
