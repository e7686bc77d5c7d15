package translation

import (
	"sync"
	"time"
)

// CacheConfig configures the translation result cache.
type CacheConfig struct {
	Enabled         bool
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultCacheConfig enables caching for one hour with periodic cleanup.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:         true,
		TTL:             time.Hour,
		CleanupInterval: 10 * time.Minute,
	}
}

// Cache memoizes translations per run so repeated texts hit the provider
// once. Safe for concurrent use.
type Cache struct {
	config CacheConfig
	data   map[string]*cacheEntry
	mutex  sync.RWMutex
	stats  CacheStats
}

type cacheEntry struct {
	value     string
	timestamp time.Time
}

// CacheStats carries hit/miss counters for logging.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// NewCache creates a cache and starts background cleanup when configured.
func NewCache(config CacheConfig) *Cache {
	cache := &Cache{
		config: config,
		data:   make(map[string]*cacheEntry),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go cache.startCleanup()
	}
	return cache
}

// Get returns a cached translation, honoring the TTL.
func (c *Cache) Get(key string) (string, bool) {
	if !c.config.Enabled {
		return "", false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[key]
	if !exists || time.Since(entry.timestamp) > c.config.TTL {
		c.stats.Misses++
		return "", false
	}
	c.stats.Hits++
	return entry.value, true
}

// Set stores a translation.
func (c *Cache) Set(key, value string) {
	if !c.config.Enabled {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = &cacheEntry{value: value, timestamp: time.Now()}
	c.stats.Size = len(c.data)
}

// Stats returns a copy of the counters.
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		for key, entry := range c.data {
			if time.Since(entry.timestamp) > c.config.TTL {
				delete(c.data, key)
			}
		}
		c.stats.Size = len(c.data)
		c.mutex.Unlock()
	}
}
