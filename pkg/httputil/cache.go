package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// AppName names the default cache directory.
const AppName = "nanotex"

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the cache TTL. The stale entry stays on disk until overwritten.
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON-marshalable values as files named by the SHA-256 of
// their key. Entry age is taken from the file modification time; a TTL of
// 0 disables expiry.
//
// A Cache is not goroutine-safe. Separate processes may share a
// directory; concurrent writers of the same key race and the last one
// wins.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// DefaultDir returns $XDG_CACHE_HOME/nanotex, falling back to
// ~/.cache/nanotex.
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// NewCache creates dir (or [DefaultDir] when empty) and returns a Cache
// over it.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry time-to-live; 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get unmarshals the entry for key into v.
//
//   - (true, nil): hit
//   - (false, nil): miss, v untouched
//   - (false, ErrExpired): stale entry, v untouched
//   - (false, err): I/O or decode failure
func (c *Cache) Get(key string, v any) (bool, error) {
	p := c.keyPath(c.prefix + key)
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set writes v under key, replacing any previous entry and resetting its
// age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Delete removes the entry for key. Deleting a missing key is not an
// error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.keyPath(c.prefix + key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every entry in the cache directory, regardless of
// namespace, and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err == nil {
			n++
		}
	}
	return n, nil
}

// Namespace returns a view of the cache whose keys are prefixed with
// prefix. Namespaces chain: c.Namespace("a:").Namespace("b:") uses "a:b:".
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
