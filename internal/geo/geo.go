package geo

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyPolygon is returned when a centroid is requested for an empty vertex list.
	ErrEmptyPolygon = errors.New("polygon has no vertices")

	// ErrVertexCount is returned when a polygon is created outside the 3-12 vertex range.
	ErrVertexCount = errors.New("polygon must have between 3 and 12 vertices")
)

const (
	// MinVertices and MaxVertices bound the drawable polygon size.
	MinVertices = 3
	MaxVertices = 12
)

// Coordinate is an immutable (latitude, longitude) pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is finite and within geographic bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Polygon is a user-drawn region bound to a weather data source.
type Polygon struct {
	ID          string       `json:"id"`
	Coordinates []Coordinate `json:"coordinates"`
	DataSource  string       `json:"dataSource"`
	Label       string       `json:"label"`
	LastUpdated *time.Time   `json:"lastUpdated,omitempty"`
}

// NewPolygon validates the vertex list and assigns a fresh identifier.
func NewPolygon(vertices []Coordinate, dataSource, label string) (Polygon, error) {
	if len(vertices) < MinVertices || len(vertices) > MaxVertices {
		return Polygon{}, fmt.Errorf("%w: got %d", ErrVertexCount, len(vertices))
	}
	for i, v := range vertices {
		if !v.Valid() {
			return Polygon{}, fmt.Errorf("vertex %d out of range: lat=%v lon=%v", i, v.Lat, v.Lon)
		}
	}

	verts := make([]Coordinate, len(vertices))
	copy(verts, vertices)

	return Polygon{
		ID:          uuid.NewString(),
		Coordinates: verts,
		DataSource:  dataSource,
		Label:       label,
	}, nil
}

// Centroid returns the arithmetic mean of the vertex latitudes and longitudes.
// This is a planar approximation; at sub-regional polygon sizes the error is
// negligible and the simple mean keeps results reproducible across runs.
func Centroid(vertices []Coordinate) (Coordinate, error) {
	if len(vertices) == 0 {
		return Coordinate{}, ErrEmptyPolygon
	}

	var sumLat, sumLon float64
	for _, v := range vertices {
		sumLat += v.Lat
		sumLon += v.Lon
	}

	n := float64(len(vertices))
	return Coordinate{
		Lat: sumLat / n,
		Lon: sumLon / n,
	}, nil
}

// Centroid returns the representative point for the polygon's footprint.
func (p Polygon) Centroid() (Coordinate, error) {
	return Centroid(p.Coordinates)
}
