// Package dashboard turns polygons into display colors: centroid, fetch,
// aggregate, classify, with concurrent refresh across polygons.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikhilpurwar/weather-dashboard/internal/rules"
	"github.com/nikhilpurwar/weather-dashboard/internal/state"
	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

// PolygonStatus is the derived display state for one polygon.
type PolygonStatus struct {
	PolygonID string    `json:"polygonId"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"` // aggregate, rounded to one decimal
	Parameter string    `json:"parameter"`
	Color     string    `json:"color"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service computes polygon colors over the fetch client.
type Service struct {
	client *weather.Client
	policy weather.FallbackPolicy
}

// New creates a Service. The policy decides the aggregator's behaviour for
// windows with no valid samples.
func New(client *weather.Client, policy weather.FallbackPolicy) *Service {
	return &Service{client: client, policy: policy}
}

// Status resolves the color for one polygon: its centroid's weather series,
// aggregated over the window, classified by the source's rule list. Only
// input validation errors surface; upstream trouble is absorbed by the
// fetch client's fallback chain.
func (s *Service) Status(ctx context.Context, snap state.AppState, polygonID string, window weather.TimeRange) (PolygonStatus, error) {
	polygon, ok := snap.FindPolygon(polygonID)
	if !ok {
		return PolygonStatus{}, fmt.Errorf("polygon %q not found", polygonID)
	}

	centroid, err := polygon.Centroid()
	if err != nil {
		return PolygonStatus{}, err
	}

	source, ok := snap.FindSource(polygon.DataSource)
	if !ok {
		// A polygon bound to a deleted source still renders: treat it as a
		// mock source so the synthetic generator covers it.
		source = weather.DataSource{ID: polygon.DataSource, Name: polygon.DataSource, IsLive: false}
	}

	series, err := s.client.Fetch(ctx, source, centroid, window)
	if err != nil {
		return PolygonStatus{}, err
	}

	parameter := source.PrimaryParameter()
	value := weather.Round1(weather.Aggregate(series, window, parameter, s.policy))
	color := rules.Classify(value, snap.RulesFor(source.ID, parameter))

	return PolygonStatus{
		PolygonID: polygon.ID,
		Label:     polygon.Label,
		Value:     value,
		Parameter: parameter,
		Color:     color,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// RefreshAll resolves colors for every polygon concurrently. One polygon's
// failure never blocks or fails the others; failed entries are logged and
// omitted from the result.
func (s *Service) RefreshAll(ctx context.Context, snap state.AppState, window weather.TimeRange) []PolygonStatus {
	statuses := make([]PolygonStatus, len(snap.Polygons))
	failed := make([]bool, len(snap.Polygons))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range snap.Polygons {
		i, p := i, p
		g.Go(func() error {
			status, err := s.Status(ctx, snap, p.ID, window)
			if err != nil {
				log.Printf("refresh failed for polygon %s: %v", p.ID, err)
				failed[i] = true
				return nil // isolate the failure
			}
			statuses[i] = status
			return nil
		})
	}
	_ = g.Wait()

	result := make([]PolygonStatus, 0, len(statuses))
	for i, st := range statuses {
		if !failed[i] {
			result = append(result, st)
		}
	}
	return result
}
