package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilpurwar/weather-dashboard/internal/cache"
	"github.com/nikhilpurwar/weather-dashboard/internal/geo"
	"github.com/nikhilpurwar/weather-dashboard/internal/state"
	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

func newTestService() *Service {
	client := weather.NewClient(cache.New(30*time.Minute), nil, weather.NewSeededGenerator(1), 24)
	return New(client, weather.FallbackFirstValid)
}

func addPolygon(t *testing.T, st state.AppState, source string) (state.AppState, geo.Polygon) {
	t.Helper()
	p, err := geo.NewPolygon([]geo.Coordinate{
		{Lat: 17, Lon: 74}, {Lat: 17, Lon: 76}, {Lat: 19, Lon: 76}, {Lat: 19, Lon: 74},
	}, source, "test area")
	require.NoError(t, err)
	return state.Apply(st, state.AddPolygon{Polygon: p}), p
}

func TestStatusClassifiesTropicalPolygon(t *testing.T) {
	snap, p := addPolygon(t, state.Default(), "mock-tropical")
	svc := newTestService()

	status, err := svc.Status(context.Background(), snap, p.ID, weather.TimeRange{})
	require.NoError(t, err)

	assert.Equal(t, p.ID, status.PolygonID)
	assert.Equal(t, weather.ParamTemperature, status.Parameter)
	// Tropical defaults: <25 green, >=32 red, >=25 amber; synthetic tropical
	// temperatures at this latitude land in one of the three bands.
	assert.Contains(t, []string{"#10b981", "#ef4444", "#f59e0b"}, status.Color)
	assert.InDelta(t, status.Value, weather.Round1(status.Value), 1e-9, "value is rounded once")
}

func TestStatusVeryHotAggregateHitsRedBand(t *testing.T) {
	// End-to-end over a fixed rule set: an aggregate of 33 against the
	// tropical defaults (>=32 listed before >=25) resolves to red.
	snap := state.Default()
	list := snap.RulesFor("mock-tropical", weather.ParamTemperature)

	var color string
	for _, r := range list {
		if r.Matches(33) {
			color = r.Color
			break
		}
	}
	assert.Equal(t, "#ef4444", color)
}

func TestStatusUnknownPolygon(t *testing.T) {
	svc := newTestService()
	_, err := svc.Status(context.Background(), state.Default(), "missing", weather.TimeRange{})
	assert.Error(t, err)
}

func TestStatusPolygonWithDeletedSourceStillRenders(t *testing.T) {
	snap, p := addPolygon(t, state.Default(), "no-longer-exists")
	svc := newTestService()

	status, err := svc.Status(context.Background(), snap, p.ID, weather.TimeRange{})
	require.NoError(t, err)
	assert.NotEmpty(t, status.Color)
}

func TestRefreshAllIsolatesFailures(t *testing.T) {
	snap, _ := addPolygon(t, state.Default(), "mock-tropical")
	snap, _ = addPolygon(t, snap, "mock-temperate")
	snap, _ = addPolygon(t, snap, "open-meteo") // no live provider registered: falls back, still succeeds

	svc := newTestService()
	statuses := svc.RefreshAll(context.Background(), snap, weather.TimeRange{})

	assert.Len(t, statuses, 3)
	for _, st := range statuses {
		assert.NotEmpty(t, st.Color)
	}
}

func TestRefreshAllEmptyState(t *testing.T) {
	svc := newTestService()
	statuses := svc.RefreshAll(context.Background(), state.Default(), weather.TimeRange{})
	assert.Empty(t, statuses)
}

func TestStatusWindowedAggregate(t *testing.T) {
	snap, p := addPolygon(t, state.Default(), "mock-tropical")
	svc := newTestService()

	end := time.Now().UTC()
	start := end.Add(-6 * time.Hour)
	window := weather.TimeRange{Start: &start, End: &end}

	status, err := svc.Status(context.Background(), snap, p.ID, window)
	require.NoError(t, err)
	assert.NotZero(t, status.Value)
}
