package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

func seriesOf(temps ...float64) weather.HourlySeries {
	s := weather.HourlySeries{Temperature: temps}
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range temps {
		s.Time = append(s.Time, base.Add(time.Duration(i)*time.Hour))
	}
	return s
}

func TestGetFreshAndExpired(t *testing.T) {
	c := New(30 * time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := "mock-tropical:1.000:2.000:temperature"
	c.Set(key, seriesOf(28, 29))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())

	// Just past expiry: Get misses, GetStale still serves.
	now = now.Add(31 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok)

	stale, fresh, present := c.GetStale(key)
	require.True(t, present)
	assert.False(t, fresh)
	assert.Equal(t, 2, stale.Len())
}

func TestGetMissingKey(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("nope")
	assert.False(t, ok)

	_, _, present := c.GetStale("nope")
	assert.False(t, present)
}

func TestEntryExpiryIsCreationPlusTTL(t *testing.T) {
	c := New(30 * time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", seriesOf(20))

	entry := c.data["k"]
	assert.Equal(t, now, entry.CreatedAt)
	assert.Equal(t, now.Add(30*time.Minute), entry.Expires)
}

func TestPruneExpiredOnlyRemovesExpired(t *testing.T) {
	c := New(30 * time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("old", seriesOf(10))
	now = now.Add(20 * time.Minute)
	c.Set("new", seriesOf(20))
	now = now.Add(15 * time.Minute) // "old" is 35m, "new" is 15m

	assert.Equal(t, 1, c.PruneExpired())

	_, _, present := c.GetStale("old")
	assert.False(t, present)
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestStats(t *testing.T) {
	c := New(30 * time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", seriesOf(1))
	now = now.Add(40 * time.Minute)
	c.Set("b", seriesOf(2))

	stats := c.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Fresh)
	assert.Equal(t, 1, stats.Expired)
	assert.Len(t, stats.Keys, 2)
}

func TestLastWriterWins(t *testing.T) {
	c := New(time.Hour)
	c.Set("k", seriesOf(1))
	c.Set("k", seriesOf(2, 3))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())
}
