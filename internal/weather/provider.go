package weather

import (
	"context"

	"github.com/nikhilpurwar/weather-dashboard/internal/geo"
)

// Provider abstracts a live weather data source queried by coordinate.
type Provider interface {
	Name() string
	FetchHourly(ctx context.Context, coord geo.Coordinate, window TimeRange) (HourlySeries, error)
}
