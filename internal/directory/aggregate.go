package directory

import (
	"github.com/laundrymap/laundrymap/internal/geo"
	"github.com/laundrymap/laundrymap/internal/model"
)

// Aggregate computes the choropleth density for each district: the mean of
// the selected metric over businesses whose coordinates fall inside the
// district ring and that carry a defined value for that metric.
//
// Districts are independent; a business inside overlapping rings counts in
// each of them, and a business inside none counts nowhere. Density is 0 when
// no business contributes, with Count carrying the disambiguation between
// "no data" and a real zero mean. The computation is a stateless full pass
// on every call.
func Aggregate(businesses []model.Business, districts []model.District, metric model.Metric) []model.DistrictDensity {
	out := make([]model.DistrictDensity, 0, len(districts))

	for _, d := range districts {
		var sum float64
		var count int

		for _, b := range businesses {
			if !geo.PointInRing(PointCoord(b), d.Ring) {
				continue
			}
			v, ok := metricValue(b, metric)
			if !ok {
				continue
			}
			sum += v
			count++
		}

		dd := model.DistrictDensity{District: d, Metric: metric, Count: count}
		if count > 0 {
			dd.Density = sum / float64(count)
		}
		out = append(out, dd)
	}

	return out
}

func metricValue(b model.Business, metric model.Metric) (float64, bool) {
	switch metric {
	case model.MetricSpeed:
		if b.SpeedDays == nil {
			return 0, false
		}
		return *b.SpeedDays, true
	default:
		if b.PricePerKG == nil {
			return 0, false
		}
		return float64(*b.PricePerKG), true
	}
}
