// Package cache persists normalized item lists per source, one JSON
// file per source keyed by a hash of the source identifier. The file
// modification time is the authoritative cache timestamp.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/feedmill/feedmill/app/feed"
)

type Cache struct {
	opts *feed.Options
}

func New(opts *feed.Options) *Cache {
	return &Cache{opts: opts}
}

// Read returns the cached item list for a source when caching is
// enabled, an entry exists and its age is below the TTL. Any failure,
// missing file, expired entry or malformed payload, is a miss.
func (c *Cache) Read(source string) ([]feed.Item, bool) {
	if !c.opts.CacheEnabled {
		return nil, false
	}

	path := c.entryPath(source)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	ttl := time.Duration(c.opts.CacheTTLMinutes) * time.Minute
	if time.Since(info.ModTime()) >= ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var items []feed.Item
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Debug("Discarding malformed cache entry", "path", path, "error", err)
		return nil, false
	}

	return items, true
}

// Write stores the item list for a source. Persistence failures are
// non-fatal: they are logged and reported as false, never aborting the
// parse.
func (c *Cache) Write(source string, items []feed.Item) bool {
	if !c.opts.CacheEnabled {
		return false
	}

	if err := os.MkdirAll(c.opts.CacheDir, 0755); err != nil {
		slog.Warn("Failed to create cache directory", "dir", c.opts.CacheDir, "error", err)
		return false
	}

	data, err := json.Marshal(items)
	if err != nil {
		slog.Warn("Failed to serialize cache entry", "source", source, "error", err)
		return false
	}

	path := c.entryPath(source)
	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Warn("Failed to write cache entry", "path", path, "error", err)
		return false
	}

	return true
}

// entryPath derives the stable cache file path for a source identifier.
func (c *Cache) entryPath(source string) string {
	hash := sha256.Sum256([]byte(source))
	return filepath.Join(c.opts.CacheDir, hex.EncodeToString(hash[:])+".json")
}
