package analytics

import (
	"sync"
	"time"
)

// statsCacheTTL bounds how long aggregated stats are served without
// re-querying SQLite. Local writes invalidate immediately; the TTL
// covers writes from other processes sharing the database file.
const statsCacheTTL = 30 * time.Second

// cacheEntry holds cached stats and metadata
type cacheEntry struct {
	stats       []Stats
	lastRefresh time.Time
}

// statsCache provides thread-safe caching for aggregated event statistics
type statsCache struct {
	mu    sync.RWMutex
	entry *cacheEntry
	ttl   time.Duration
}

// newStatsCache creates a new statistics cache with the specified TTL
func newStatsCache(ttl time.Duration) *statsCache {
	return &statsCache{ttl: ttl}
}

// get retrieves cached stats if available and fresh
func (c *statsCache) get() ([]Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return nil, false
	}

	// Check if cache is still fresh
	if time.Since(c.entry.lastRefresh) > c.ttl {
		return nil, false
	}

	return c.entry.stats, true
}

// set stores stats in cache
func (c *statsCache) set(stats []Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &cacheEntry{
		stats:       stats,
		lastRefresh: time.Now(),
	}
}

// invalidate clears all cached data
func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = nil
}
