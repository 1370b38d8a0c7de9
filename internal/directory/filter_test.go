package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundrymap/laundrymap/internal/model"
)

func intp(v int) *int          { return &v }
func floatp(v float64) *float64 { return &v }

func testBusinesses() []model.Business {
	return []model.Business{
		{ID: 1, Name: "Dr. Laundry Telkom", Lat: -6.979048, Lng: 107.630752, Address: "Jl. Telekomunikasi No. 1, Sukapura", PricePerKG: intp(7000), SpeedDays: floatp(1), OpeningHours: "08:00 - 20:00"},
		{ID: 2, Name: "Kiloan Express Sukabirus", Lat: -6.9766, Lng: 107.6285, Address: "Jl. Sukabirus No. 10", PricePerKG: intp(6000), SpeedDays: floatp(2), OpeningHours: "07:00 - 21:00"},
		{ID: 3, Name: "Super Cepat Laundry", Lat: -6.9742, Lng: 107.632, Address: "Jl. PGA No. 5", PricePerKG: intp(8000), SpeedDays: floatp(0.5), OpeningHours: "24 Hours"},
	}
}

func TestFilter_NoCriteriaKeepsInputOrder(t *testing.T) {
	results := Filter(testBusinesses(), Criteria{})
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, int64(i+1), r.ID)
		assert.True(t, r.Matches)
		assert.Nil(t, r.DistanceM)
	}
}

func TestFilterStrict_MaxPrice(t *testing.T) {
	// 5000 and 9000 per kg against a 6000 ceiling.
	businesses := []model.Business{
		{ID: 1, Name: "Cheap", PricePerKG: intp(5000)},
		{ID: 2, Name: "Pricey", PricePerKG: intp(9000)},
	}
	results := FilterStrict(businesses, Criteria{MaxPrice: 6000})
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestFilter_MaxPriceDimsInsteadOfDropping(t *testing.T) {
	results := Filter(testBusinesses(), Criteria{MaxPrice: 6500})
	require.Len(t, results, 3)
	assert.False(t, results[0].Matches)
	assert.True(t, results[1].Matches)
	assert.False(t, results[2].Matches)
}

func TestFilter_MonotoneInPriceBound(t *testing.T) {
	// Tightening the price bound never increases the strict-match count.
	businesses := testBusinesses()
	prev := len(FilterStrict(businesses, Criteria{MaxPrice: 10000}))
	for _, bound := range []float64{8000, 7000, 6000, 5000, 1000} {
		cur := len(FilterStrict(businesses, Criteria{MaxPrice: bound}))
		assert.LessOrEqual(t, cur, prev, "bound %v", bound)
		prev = cur
	}
}

func TestFilter_UnknownPriceNeverMatchesBound(t *testing.T) {
	businesses := []model.Business{{ID: 1, Name: "Mystery"}}
	results := Filter(businesses, Criteria{MaxPrice: 100000})
	require.Len(t, results, 1)
	assert.False(t, results[0].Matches)

	// Without a bound the unknown price is fine.
	assert.True(t, Filter(businesses, Criteria{})[0].Matches)
}

func TestFilter_NegativeBoundClampsToUnbounded(t *testing.T) {
	results := FilterStrict(testBusinesses(), Criteria{MaxPrice: -1, MaxSpeed: -5})
	assert.Len(t, results, 3)
}

func TestFilter_MaxSpeed(t *testing.T) {
	results := FilterStrict(testBusinesses(), Criteria{MaxSpeed: 1})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.LessOrEqual(t, *r.SpeedDays, 1.0)
	}
}

func TestFilter_OpenNowHeuristic(t *testing.T) {
	results := FilterStrict(testBusinesses(), Criteria{OpenNowOnly: true})
	require.Len(t, results, 1)
	assert.Equal(t, "Super Cepat Laundry", results[0].Name)
}

func TestFilter_QueryParticipates(t *testing.T) {
	results := FilterStrict(testBusinesses(), Criteria{Query: "sukabirus"})
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].ID)

	// One-character queries are ignored rather than matched.
	assert.Len(t, FilterStrict(testBusinesses(), Criteria{Query: "s"}), 3)
}

func TestFilter_OriginAnnotatesEveryRow(t *testing.T) {
	origin := &Origin{Lat: -6.9790, Lng: 107.6307}
	results := Filter(testBusinesses(), Criteria{Origin: origin, MaxPrice: 6000})
	require.Len(t, results, 3)
	for _, r := range results {
		require.NotNil(t, r.DistanceM, "distance computed for non-matching rows too")
	}
}

func TestFilter_RadiusWithOrigin(t *testing.T) {
	// One business ~500 m away, one ~1500 m, radius 1000 m.
	origin := &Origin{Lat: 0, Lng: 0}
	businesses := []model.Business{
		{ID: 1, Name: "Far", Lat: 0.0135, Lng: 0}, // ~1500 m north
		{ID: 2, Name: "Near", Lat: 0.0045, Lng: 0}, // ~500 m north
	}
	results := FilterStrict(businesses, Criteria{Origin: origin, RadiusM: 1000})
	require.Len(t, results, 1)
	assert.Equal(t, "Near", results[0].Name)
	require.NotNil(t, results[0].DistanceM)
	assert.InDelta(t, 500, *results[0].DistanceM, 30)
}

func TestFilter_OriginSortsByDistanceWhenUnbounded(t *testing.T) {
	origin := &Origin{Lat: -6.9742, Lng: 107.632}
	results := Filter(testBusinesses(), Criteria{Origin: origin})
	require.Len(t, results, 3)
	assert.Equal(t, int64(3), results[0].ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, *results[i].DistanceM, *results[i-1].DistanceM)
	}
}

func TestFilter_ExplicitSortBeatsDistanceDefault(t *testing.T) {
	origin := &Origin{Lat: -6.9742, Lng: 107.632}
	results := Filter(testBusinesses(), Criteria{Origin: origin, SortBy: SortPrice})
	require.Len(t, results, 3)
	assert.Equal(t, 6000, *results[0].PricePerKG)
	assert.Equal(t, 7000, *results[1].PricePerKG)
	assert.Equal(t, 8000, *results[2].PricePerKG)
}

func TestFilter_PriceBoundSuppressesDistanceDefault(t *testing.T) {
	origin := &Origin{Lat: -6.9742, Lng: 107.632}
	results := Filter(testBusinesses(), Criteria{Origin: origin, MaxPrice: 9000})
	require.Len(t, results, 3)
	// Input order preserved; ID 3 would come first under distance sort.
	assert.Equal(t, int64(1), results[0].ID)
}

func TestFilter_SortNameAndUnknownsLast(t *testing.T) {
	businesses := []model.Business{
		{ID: 1, Name: "Zeta Wash", PricePerKG: intp(5000)},
		{ID: 2, Name: "Alpha Wash"},
		{ID: 3, Name: "Mid Wash", PricePerKG: intp(4000)},
	}

	byName := Filter(businesses, Criteria{SortBy: SortName})
	assert.Equal(t, "Alpha Wash", byName[0].Name)
	assert.Equal(t, "Zeta Wash", byName[2].Name)

	byPrice := Filter(businesses, Criteria{SortBy: SortPrice})
	assert.Equal(t, int64(3), byPrice[0].ID)
	assert.Equal(t, int64(1), byPrice[1].ID)
	assert.Equal(t, int64(2), byPrice[2].ID, "unknown price sorts last")
}

func TestFilter_DoesNotMutateSnapshot(t *testing.T) {
	businesses := testBusinesses()
	Filter(businesses, Criteria{Origin: &Origin{Lat: 0, Lng: 0}, MaxPrice: 1})
	for _, b := range businesses {
		assert.Nil(t, b.DistanceM)
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, Criteria{MaxPrice: 5000}))
	assert.Empty(t, FilterStrict(nil, Criteria{}))
}
