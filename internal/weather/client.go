package weather

import (
	"context"
	"fmt"
	"log"

	"github.com/nikhilpurwar/weather-dashboard/internal/geo"
)

// SeriesCache is the view of the response cache the fetch client needs.
// *cache.Cache satisfies it.
type SeriesCache interface {
	Get(key string) (HourlySeries, bool)
	GetStale(key string) (HourlySeries, bool, bool)
	Set(key string, series HourlySeries)
}

// CacheKey builds the canonical cache key from a source id, a coordinate
// rounded to 3 decimal places, and the parameter the series was fetched for.
func CacheKey(sourceID string, coord geo.Coordinate, parameter string) string {
	return fmt.Sprintf("%s:%.3f:%.3f:%s", sourceID, coord.Lat, coord.Lon, parameter)
}

// Client retrieves hourly weather series for a coordinate, layering a TTL
// cache and a synthetic fallback over the live providers. For network-class
// failures it always resolves to some series (cached, live, or synthetic);
// only invalid input is surfaced as an error.
type Client struct {
	cache     SeriesCache
	providers map[string]Provider
	generator *Generator
	hours     int // synthetic series length
}

// NewClient creates a Client over the given cache, live providers (keyed by
// data-source id), and synthetic generator.
func NewClient(c SeriesCache, provs []Provider, gen *Generator, syntheticHours int) *Client {
	byID := make(map[string]Provider, len(provs))
	for _, p := range provs {
		byID[p.Name()] = p
	}
	if syntheticHours <= 0 {
		syntheticHours = 24
	}
	return &Client{
		cache:     c,
		providers: byID,
		generator: gen,
		hours:     syntheticHours,
	}
}

// Fetch returns the hourly series for the source at the coordinate.
//
// Resolution order: fresh cache entry, then (for mock sources) the synthetic
// generator, then the live provider. On live failure a stale cache entry is
// served if one exists; otherwise a default-style synthetic series is
// generated. Every terminal path except "served stale" writes the cache.
func (c *Client) Fetch(ctx context.Context, source DataSource, coord geo.Coordinate, window TimeRange) (HourlySeries, error) {
	if !coord.Valid() {
		return HourlySeries{}, fmt.Errorf("invalid coordinate: lat=%v lon=%v", coord.Lat, coord.Lon)
	}

	key := CacheKey(source.ID, coord, source.PrimaryParameter())

	if series, ok := c.cache.Get(key); ok {
		return series, nil
	}

	if !source.IsLive {
		series := c.generator.Generate(StyleFromSourceID(source.ID), coord, c.hours)
		c.cache.Set(key, series)
		return series, nil
	}

	provider, ok := c.providers[source.ID]
	if !ok {
		// Unknown live source: treat like a provider failure so the
		// fallback chain still yields a series.
		return c.fallback(key, coord, fmt.Errorf("no provider registered for source %q", source.ID)), nil
	}

	series, err := provider.FetchHourly(ctx, coord, window)
	if err != nil {
		return c.fallback(key, coord, err), nil
	}

	c.cache.Set(key, series)
	return series, nil
}

// fallback absorbs a live-fetch failure: stale cache first, synthetic last.
func (c *Client) fallback(key string, coord geo.Coordinate, cause error) HourlySeries {
	if series, _, present := c.cache.GetStale(key); present {
		log.Printf("WARN: live fetch failed (%v); serving stale cache entry for %s", cause, key)
		return series
	}

	log.Printf("WARN: live fetch failed (%v); falling back to synthetic data for %s", cause, key)
	series := c.generator.Generate(DefaultStyle, coord, c.hours)
	c.cache.Set(key, series)
	return series
}
