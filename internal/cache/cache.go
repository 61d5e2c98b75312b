// Package cache memoizes fetched weather series per (source, coordinate,
// parameter) with a fixed TTL. Expired entries stay readable so the fetch
// client can serve stale data as a last resort; eviction is driven from the
// outside (the scheduler calls PruneExpired).
package cache

import (
	"sync"
	"time"

	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

// The fetch client consumes the cache through weather.SeriesCache; keep
// *Cache conforming to it.
var _ weather.SeriesCache = (*Cache)(nil)

// DefaultTTL is the cache entry validity duration.
const DefaultTTL = 30 * time.Minute

// Entry is one cached series with its creation and expiry instants.
type Entry struct {
	Series    weather.HourlySeries
	CreatedAt time.Time
	Expires   time.Time
}

// Stats summarizes cache occupancy for diagnostics.
type Stats struct {
	Total   int      `json:"total"`
	Fresh   int      `json:"fresh"`
	Expired int      `json:"expired"`
	Keys    []string `json:"keys"`
}

// Cache is a concurrency-safe key-value store of weather series. Last writer
// for a key wins; entries are idempotent recomputations of the same lookup.
type Cache struct {
	mu   sync.RWMutex
	data map[string]Entry
	ttl  time.Duration
	now  func() time.Time
}

// New creates a Cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		data: make(map[string]Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the series for key if a fresh entry exists.
func (c *Cache) Get(key string) (weather.HourlySeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().After(entry.Expires) {
		return weather.HourlySeries{}, false
	}
	return entry.Series, true
}

// GetStale returns the entry for key regardless of expiry. The second return
// reports freshness, the third presence.
func (c *Cache) GetStale(key string) (weather.HourlySeries, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok {
		return weather.HourlySeries{}, false, false
	}
	return entry.Series, !c.now().After(entry.Expires), true
}

// Set stores the series under key with expiry = now + TTL.
func (c *Cache) Set(key string, series weather.HourlySeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	created := c.now()
	c.data[key] = Entry{
		Series:    series,
		CreatedAt: created,
		Expires:   created.Add(c.ttl),
	}
}

// PruneExpired removes expired entries and returns how many were dropped.
func (c *Cache) PruneExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	pruned := 0
	for key, entry := range c.data {
		if now.After(entry.Expires) {
			delete(c.data, key)
			pruned++
		}
	}
	return pruned
}

// Stats reports occupancy split into fresh and expired entries.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{Keys: make([]string, 0, len(c.data))}
	now := c.now()
	for key, entry := range c.data {
		stats.Total++
		if now.After(entry.Expires) {
			stats.Expired++
		} else {
			stats.Fresh++
		}
		stats.Keys = append(stats.Keys, key)
	}
	return stats
}
