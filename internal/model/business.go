package model

// Business represents a single laundry service location.
//
// PricePerKG and SpeedDays are nil when the value is unknown; an unknown
// value never satisfies an upper-bound filter. DistanceM is transient: it is
// populated by the filter engine when a reference point is supplied and is
// never persisted.
type Business struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Address      string   `json:"address,omitempty"`
	PricePerKG   *int     `json:"price_per_kg,omitempty"`
	SpeedDays    *float64 `json:"service_speed_days,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty"`
	DistanceM    *float64 `json:"distance,omitempty"`
}

// StoreStats summarizes the business table for the /api/stats endpoint.
// Min/avg/max are computed over rows with a defined value only.
type StoreStats struct {
	TotalBusinesses int      `json:"total_businesses"`
	AvgPrice        *float64 `json:"avg_price,omitempty"`
	MinPrice        *int     `json:"min_price,omitempty"`
	MaxPrice        *int     `json:"max_price,omitempty"`
	AvgSpeedDays    *float64 `json:"avg_speed_days,omitempty"`
	MinSpeedDays    *float64 `json:"min_speed_days,omitempty"`
	MaxSpeedDays    *float64 `json:"max_speed_days,omitempty"`
}
