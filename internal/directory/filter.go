// Package directory implements the spatial aggregation and filtering
// pipeline over an in-memory snapshot of the business table: marker
// filtering, per-district choropleth aggregation, and ranked text search.
// All functions are pure and never mutate the input snapshot.
package directory

import (
	"sort"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/laundrymap/laundrymap/internal/geo"
	"github.com/laundrymap/laundrymap/internal/model"
)

// SortKey selects an explicit output ordering for Filter.
type SortKey string

const (
	SortDefault  SortKey = ""
	SortPrice    SortKey = "price"
	SortSpeed    SortKey = "speed"
	SortName     SortKey = "name"
	SortDistance SortKey = "distance"
)

// Origin is a reference point for distance annotation and radius filtering.
type Origin struct {
	Lat float64
	Lng float64
}

// Criteria holds per-request filter parameters. Zero or negative bounds mean
// "no bound"; a query shorter than MinQueryLen is ignored. RadiusM only
// applies when Origin is set.
type Criteria struct {
	MaxPrice    float64
	MaxSpeed    float64
	OpenNowOnly bool
	Query       string
	Origin      *Origin
	RadiusM     float64
	SortBy      SortKey
}

// Result is a business annotated with its filter outcome. Non-matching
// businesses are retained so callers can dim rather than hide them; distance
// is computed for every row whenever an origin is supplied.
type Result struct {
	model.Business
	Matches bool `json:"matches"`
}

// Filter applies criteria to a snapshot and returns one Result per input
// business, ordered per the criteria sort key. With no explicit key the
// output keeps input order, except that an origin with no price/speed bound
// sorts ascending by distance (the "find near me" behavior).
func Filter(businesses []model.Business, c Criteria) []Result {
	priceBounded := c.MaxPrice > 0
	speedBounded := c.MaxSpeed > 0
	query := normalizeQuery(c.Query)

	results := make([]Result, 0, len(businesses))
	for _, b := range businesses {
		if c.Origin != nil {
			d := geo.Haversine(c.Origin.Lat, c.Origin.Lng, b.Lat, b.Lng)
			b.DistanceM = &d
		} else {
			b.DistanceM = nil
		}

		matches := true
		if priceBounded && (b.PricePerKG == nil || float64(*b.PricePerKG) > c.MaxPrice) {
			matches = false
		}
		if speedBounded && (b.SpeedDays == nil || *b.SpeedDays > c.MaxSpeed) {
			matches = false
		}
		if c.OpenNowOnly && !openAllDay(b.OpeningHours) {
			matches = false
		}
		if query != "" && !matchesQuery(b, query) {
			matches = false
		}
		if c.Origin != nil && c.RadiusM > 0 && *b.DistanceM > c.RadiusM {
			matches = false
		}

		results = append(results, Result{Business: b, Matches: matches})
	}

	sortResults(results, c, priceBounded, speedBounded)
	return results
}

// FilterStrict is the server-side search variant of Filter: non-matching
// businesses are dropped instead of flagged.
func FilterStrict(businesses []model.Business, c Criteria) []Result {
	all := Filter(businesses, c)
	strict := all[:0:0]
	for _, r := range all {
		if r.Matches {
			strict = append(strict, r)
		}
	}
	return strict
}

func sortResults(results []Result, c Criteria, priceBounded, speedBounded bool) {
	key := c.SortBy
	if key == SortDefault && c.Origin != nil && !priceBounded && !speedBounded {
		key = SortDistance
	}

	switch key {
	case SortPrice:
		sort.SliceStable(results, func(i, j int) bool {
			return lessOptionalInt(results[i].PricePerKG, results[j].PricePerKG)
		})
	case SortSpeed:
		sort.SliceStable(results, func(i, j int) bool {
			return lessOptionalFloat(results[i].SpeedDays, results[j].SpeedDays)
		})
	case SortName:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Name < results[j].Name
		})
	case SortDistance:
		if c.Origin == nil {
			return
		}
		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].DistanceM < *results[j].DistanceM
		})
	}
}

// lessOptionalInt orders defined values ascending and places unknowns last.
func lessOptionalInt(a, b *int) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

func lessOptionalFloat(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

// openAllDay is the textual open-now heuristic carried over from the
// original data: hours containing "24" signal round-the-clock operation.
// It is not a time-window evaluation.
func openAllDay(hours string) bool {
	return strings.Contains(hours, "24")
}

// PointCoord returns the business location in (lng, lat) order, matching
// district ring vertex order.
func PointCoord(b model.Business) geom.Coord {
	return geom.Coord{b.Lng, b.Lat}
}
