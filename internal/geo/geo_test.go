package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentroidMeansLatAndLon(t *testing.T) {
	verts := []Coordinate{
		{Lat: 10, Lon: 20},
		{Lat: 20, Lon: 30},
		{Lat: 30, Lon: 40},
		{Lat: 40, Lon: 50},
	}

	c, err := Centroid(verts)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, c.Lat, 1e-9)
	assert.InDelta(t, 35.0, c.Lon, 1e-9)
}

func TestCentroidOrderIndependent(t *testing.T) {
	a := []Coordinate{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}}
	b := []Coordinate{{Lat: 5, Lon: 6}, {Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}}

	ca, err := Centroid(a)
	require.NoError(t, err)
	cb, err := Centroid(b)
	require.NoError(t, err)

	assert.InDelta(t, ca.Lat, cb.Lat, 1e-9)
	assert.InDelta(t, ca.Lon, cb.Lon, 1e-9)
}

func TestCentroidEmptyInput(t *testing.T) {
	_, err := Centroid(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyPolygon))
}

func TestCentroidSingleVertex(t *testing.T) {
	// Centroid itself must not special-case vertex count.
	c, err := Centroid([]Coordinate{{Lat: 52.52, Lon: 13.405}})
	require.NoError(t, err)
	assert.InDelta(t, 52.52, c.Lat, 1e-9)
	assert.InDelta(t, 13.405, c.Lon, 1e-9)
}

func TestNewPolygonVertexBounds(t *testing.T) {
	square := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 0}}

	p, err := NewPolygon(square, "open-meteo", "test area")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, p.Coordinates, 4)

	_, err = NewPolygon(square[:2], "open-meteo", "too small")
	assert.True(t, errors.Is(err, ErrVertexCount))

	big := make([]Coordinate, 13)
	_, err = NewPolygon(big, "open-meteo", "too big")
	assert.True(t, errors.Is(err, ErrVertexCount))
}

func TestNewPolygonRejectsBadCoordinates(t *testing.T) {
	cases := []Coordinate{
		{Lat: 91, Lon: 0},
		{Lat: -91, Lon: 0},
		{Lat: 0, Lon: 181},
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(1)},
	}

	for _, bad := range cases {
		verts := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, bad}
		_, err := NewPolygon(verts, "open-meteo", "bad")
		assert.Error(t, err, "expected rejection for %+v", bad)
	}
}
