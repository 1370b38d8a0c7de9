package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

var unitSquare = []geom.Coord{{0, 0}, {0, 2}, {2, 2}, {2, 0}}

func TestPointInRing_Inside(t *testing.T) {
	assert.True(t, PointInRing(geom.Coord{1, 1}, unitSquare))
	assert.True(t, PointInRing(geom.Coord{0.1, 1.9}, unitSquare))
}

func TestPointInRing_Outside(t *testing.T) {
	assert.False(t, PointInRing(geom.Coord{5, 5}, unitSquare))
	assert.False(t, PointInRing(geom.Coord{-1, 1}, unitSquare))
	assert.False(t, PointInRing(geom.Coord{1, 3}, unitSquare))
	assert.False(t, PointInRing(geom.Coord{3, 1}, unitSquare))
}

func TestPointInRing_ClosedRing(t *testing.T) {
	// Explicitly closed ring (first vertex repeated) behaves the same.
	closed := append(append([]geom.Coord{}, unitSquare...), geom.Coord{0, 0})
	assert.True(t, PointInRing(geom.Coord{1, 1}, closed))
	assert.False(t, PointInRing(geom.Coord{5, 5}, closed))
}

func TestPointInRing_Concave(t *testing.T) {
	// L-shaped polygon: the notch at the upper right is outside.
	lShape := []geom.Coord{{0, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 4}, {0, 4}}
	assert.True(t, PointInRing(geom.Coord{1, 3}, lShape))
	assert.True(t, PointInRing(geom.Coord{3, 1}, lShape))
	assert.False(t, PointInRing(geom.Coord{3, 3}, lShape))
}

func TestPointInRing_Degenerate(t *testing.T) {
	assert.False(t, PointInRing(geom.Coord{0, 0}, nil))
	assert.False(t, PointInRing(geom.Coord{0, 0}, []geom.Coord{{0, 0}}))
	assert.False(t, PointInRing(geom.Coord{0, 0}, []geom.Coord{{0, 0}, {1, 1}}))
}

func TestHaversine_Zero(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(-6.9790, 107.6307, -6.9790, 107.6307))
}

func TestHaversine_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{-6.9790, 107.6307, -6.9766, 107.6285},
		{0, 0, 10, 10},
		{51.5007, -0.1246, 40.6892, -74.0445},
	}
	for _, p := range pairs {
		assert.Equal(t, Haversine(p[0], p[1], p[2], p[3]), Haversine(p[2], p[3], p[0], p[1]))
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// London Eye to Statue of Liberty, roughly 5575 km.
	d := Haversine(51.5007, -0.1246, 40.6892, -74.0445)
	assert.InDelta(t, 5575000, d, 10000)
}

func TestHaversine_MonotonicWithSeparation(t *testing.T) {
	d1 := Haversine(0, 0, 0, 1)
	d2 := Haversine(0, 0, 0, 2)
	d3 := Haversine(0, 0, 0, 3)
	assert.Less(t, d1, d2)
	assert.Less(t, d2, d3)
}

func TestHaversine_NaNPropagates(t *testing.T) {
	assert.True(t, math.IsNaN(Haversine(math.NaN(), 0, 0, 0)))
}
