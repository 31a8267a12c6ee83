package cache

import (
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ryotak25/kaidoku/internal/model"
)

// MemoryCache keeps serialized analysis results in process memory.
// Entries are stored as JSON and decoded into a fresh value on every
// hit, so callers can mutate what they get back without poisoning the
// cache.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a result cache with the given default TTL and
// expiry sweep interval
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached analysis result for a key, or false on a miss
// or an undecodable entry
func (c *MemoryCache) Get(key string) (*model.AnalysisResult, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	raw, ok := val.([]byte)
	if !ok {
		return nil, false
	}
	var result model.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Set stores an analysis result under a key with the given TTL
func (c *MemoryCache) Set(key string, result *model.AnalysisResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	c.cache.Set(key, raw, ttl)
	return nil
}

// Delete removes a single entry
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all entries
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
