// Package geo provides the point-in-polygon and great-circle distance
// primitives used by the directory pipeline. All functions are pure and
// degrade gracefully on degenerate input.
package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// EarthRadiusM is the mean Earth radius in meters used by Haversine.
const EarthRadiusM = 6371000.0

// PointInRing reports whether pt lies inside the closed ring using the
// ray-casting parity rule: a ray cast in the +x direction from pt crosses
// the ring an odd number of times iff the point is inside. The ring is an
// ordered vertex sequence; the first and last vertex need not repeat.
//
// Points exactly on a ring edge have unspecified inclusion. Rings with
// fewer than 3 vertices never contain anything.
func PointInRing(pt geom.Coord, ring []geom.Coord) bool {
	if len(ring) < 3 {
		return false
	}

	x, y := pt[0], pt[1]
	inside := false

	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}

	return inside
}

// Haversine returns the great-circle distance in meters between two
// (latitude, longitude) pairs given in degrees. It is symmetric in its
// arguments and returns 0 for identical points. Out-of-range coordinates
// are not rejected; non-finite input propagates as NaN.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}
