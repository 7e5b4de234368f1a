// Package cache provides bounded caches used by harbind.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/harbind/pkg/types"
)

// ArchiveCache provides thread-safe LRU caching for parsed archives,
// keyed by a caller-chosen fingerprint (typically path, size and mtime).
type ArchiveCache struct {
	cache *lru.Cache[string, []types.Request]
}

// NewArchiveCache creates a new LRU cache with the specified maximum number of archives.
func NewArchiveCache(maxItems int) (*ArchiveCache, error) {
	c, err := lru.New[string, []types.Request](maxItems)
	if err != nil {
		return nil, err
	}
	return &ArchiveCache{cache: c}, nil
}

// Get retrieves the requests of an archive by key.
// Returns the requests and true if found, nil and false otherwise.
func (c *ArchiveCache) Get(key string) ([]types.Request, bool) {
	return c.cache.Get(key)
}

// Put adds or updates an archive in the cache.
func (c *ArchiveCache) Put(key string, requests []types.Request) {
	c.cache.Add(key, requests)
}

// Len returns the current number of archives in the cache.
func (c *ArchiveCache) Len() int {
	return c.cache.Len()
}
