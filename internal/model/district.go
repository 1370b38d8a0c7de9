package model

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Metric selects which business field feeds a district aggregate.
type Metric string

const (
	MetricPrice Metric = "price"
	MetricSpeed Metric = "speed"
)

// ParseMetric validates a metric name from user input.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricPrice, MetricSpeed:
		return Metric(s), nil
	default:
		return "", eris.Errorf("model: unknown metric %q", s)
	}
}

// District is a named polygon used to bucket businesses for aggregate
// reporting. Ring holds the outer ring vertices in (lng, lat) order; the
// first and last vertex need not repeat.
type District struct {
	Name string       `json:"name"`
	Ring []geom.Coord `json:"-"`
}

// DistrictDensity is a district annotated with the mean of the selected
// metric over contained businesses. Count distinguishes an empty district
// (Count == 0, Density reported as 0) from a genuine zero mean.
type DistrictDensity struct {
	District
	Metric  Metric  `json:"metric"`
	Density float64 `json:"density"`
	Count   int     `json:"count"`
}
