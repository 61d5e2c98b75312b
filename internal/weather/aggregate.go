package weather

import (
	"math"
)

// FallbackPolicy decides what Aggregate returns when the selected window
// contains no valid sample.
type FallbackPolicy string

const (
	// FallbackFirstValid falls back to the first chronologically valid sample
	// in the full series.
	FallbackFirstValid FallbackPolicy = "first-valid"

	// FallbackZero returns 0 immediately on an empty window.
	FallbackZero FallbackPolicy = "zero"
)

// Aggregate reduces an hourly series to one scalar for the given parameter.
//
// With both window endpoints set, it averages the valid samples whose
// timestamps fall within [start, end] inclusive. An empty result applies the
// fallback policy. Without a window it returns the most recent valid sample,
// scanning backward. A series with no valid sample at all yields 0.
//
// Pure and deterministic for identical inputs; it never rounds (callers round
// once at the boundary where the value is surfaced, see Round1).
func Aggregate(series HourlySeries, window TimeRange, parameter string, policy FallbackPolicy) float64 {
	if window.Start != nil && window.End != nil {
		var sum float64
		var count int
		for i, ts := range series.Time {
			if ts.Before(*window.Start) || ts.After(*window.End) {
				continue
			}
			v := series.Value(parameter, i)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count > 0 {
			return sum / float64(count)
		}
		if policy == FallbackZero {
			return 0
		}
		return firstValid(series, parameter)
	}

	// No window selected: most recent valid sample wins.
	for i := series.Len() - 1; i >= 0; i-- {
		v := series.Value(parameter, i)
		if !math.IsNaN(v) {
			return v
		}
	}
	return 0
}

func firstValid(series HourlySeries, parameter string) float64 {
	for i := 0; i < series.Len(); i++ {
		v := series.Value(parameter, i)
		if !math.IsNaN(v) {
			return v
		}
	}
	return 0
}

// Round1 rounds to one decimal place for display. Apply exactly once, at the
// boundary where the aggregate is surfaced.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
