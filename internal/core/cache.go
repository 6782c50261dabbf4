package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// DefaultCacheEntries bounds the content cache when no size is configured.
const DefaultCacheEntries = 256

// ContentCache memoizes parsed files keyed by a hash of their full content,
// display name and category. Cached tables are immutable, so one entry can be
// handed to any number of callers.
type ContentCache struct {
	entries *lru.Cache[string, *table.Table]
	hits    atomic.Int64
	misses  atomic.Int64
}

// CacheStats is a snapshot of cache effectiveness.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewContentCache creates a cache holding at most maxEntries parsed tables.
func NewContentCache(maxEntries int) (*ContentCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	entries, err := lru.New[string, *table.Table](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create content cache: %w", err)
	}
	return &ContentCache{entries: entries}, nil
}

// CacheKey derives the cache key for one file. The name is part of the key
// because it ends up in the provenance column; the bytes are hashed in full
// so two files sharing a name never collide.
func CacheKey(data []byte, name string, category Category) string {
	h := sha256.New()
	h.Write([]byte(category))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached table for key. A nil cache never hits.
func (c *ContentCache) Get(key string) (*table.Table, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return t, ok
}

// Add stores a parsed table. A nil cache ignores the call.
func (c *ContentCache) Add(key string, t *table.Table) {
	if c == nil {
		return
	}
	c.entries.Add(key, t)
}

// Stats returns current counters.
func (c *ContentCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	return CacheStats{
		Entries: c.entries.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
