package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/laundrymap/laundrymap/internal/directory"
	"github.com/laundrymap/laundrymap/internal/districts"
	"github.com/laundrymap/laundrymap/internal/model"
	"github.com/laundrymap/laundrymap/internal/store"
)

// handleHealth verifies the store is reachable, not just that the process
// is up.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountBusinesses(r.Context())
	if err != nil {
		zap.L().Error("api: health check", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "unhealthy"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"laundries":      count,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.store.ListBusinesses(r.Context())
	if err != nil {
		zap.L().Error("api: list businesses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load laundries")
		return
	}
	if businesses == nil {
		businesses = []model.Business{}
	}
	writeJSON(w, http.StatusOK, businesses)
}

// createRequest is the POST body. Coordinates are pointers so an absent
// field is distinguishable from a legitimate zero.
type createRequest struct {
	Name         string   `json:"name"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Address      string   `json:"address"`
	PricePerKG   *int     `json:"price_per_kg"`
	SpeedDays    *float64 `json:"service_speed_days"`
	OpeningHours string   `json:"opening_hours"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	b := model.Business{
		Name:         req.Name,
		Lat:          *req.Lat,
		Lng:          *req.Lng,
		Address:      req.Address,
		PricePerKG:   req.PricePerKG,
		SpeedDays:    req.SpeedDays,
		OpeningHours: req.OpeningHours,
	}

	created, err := h.store.CreateBusiness(r.Context(), b)
	if err != nil {
		if eris.Is(err, store.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("api: create business", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create laundry")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleMarkers serves the map pin view: every row comes back with a
// matches flag so the frontend dims non-matching pins instead of hiding
// them, plus distances when a reference point is given.
func (h *Handler) handleMarkers(w http.ResponseWriter, r *http.Request) {
	crit, err := filterCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	businesses, storeErr := h.store.ListBusinesses(r.Context())
	if storeErr != nil {
		zap.L().Error("api: list businesses", zap.Error(storeErr))
		writeError(w, http.StatusInternalServerError, "failed to load laundries")
		return
	}

	results := directory.Filter(businesses, crit)
	if results == nil {
		results = []directory.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := h.opts.Search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > h.opts.Search.MaxLimit {
		limit = h.opts.Search.MaxLimit
	}

	businesses, err := h.store.ListBusinesses(r.Context())
	if err != nil {
		zap.L().Error("api: list businesses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load laundries")
		return
	}

	results := directory.Search(businesses, query, limit)
	if results == nil {
		results = []directory.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// filterCriteria parses the filter parameters shared by the advanced
// search and the markers view.
func filterCriteria(q url.Values) (directory.Criteria, error) {
	crit := directory.Criteria{Query: q.Get("q")}

	var err error
	if crit.MaxPrice, err = floatParam(q.Get("maxPrice"), 0); err != nil {
		return crit, eris.New("maxPrice must be a number")
	}
	if crit.MaxSpeed, err = floatParam(q.Get("maxSpeed"), 0); err != nil {
		return crit, eris.New("maxSpeed must be a number")
	}
	crit.OpenNowOnly = boolParam(q.Get("openNow"))

	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if (latRaw == "") != (lngRaw == "") {
		return crit, eris.New("lat and lng must be supplied together")
	}
	if latRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			return crit, eris.New("lat and lng must be numbers")
		}
		crit.Origin = &directory.Origin{Lat: lat, Lng: lng}
	}
	return crit, nil
}

// advancedResponse is the search envelope: matching rows plus an echo of
// the parameters that produced them.
type advancedResponse struct {
	Results      []directory.Result `json:"results"`
	Count        int                `json:"count"`
	SearchParams advancedParams     `json:"searchParams"`
	Timestamp    string             `json:"timestamp"`
}

type advancedParams struct {
	Query    string   `json:"q,omitempty"`
	MaxPrice float64  `json:"maxPrice,omitempty"`
	MaxSpeed float64  `json:"maxSpeed,omitempty"`
	OpenNow  bool     `json:"openNow,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	RadiusM  float64  `json:"radius,omitempty"`
	SortBy   string   `json:"sortBy,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

func (h *Handler) handleAdvanced(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	crit, err := filterCriteria(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if crit.Origin != nil {
		if crit.RadiusM, err = floatParam(q.Get("radius"), 0); err != nil {
			writeError(w, http.StatusBadRequest, "radius must be a number")
			return
		}
	}
	if crit.SortBy, err = sortKeyParam(q.Get("sortBy")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > h.opts.Search.MaxLimit {
		limit = h.opts.Search.MaxLimit
	}

	businesses, storeErr := h.store.ListBusinesses(r.Context())
	if storeErr != nil {
		zap.L().Error("api: list businesses", zap.Error(storeErr))
		writeError(w, http.StatusInternalServerError, "failed to load laundries")
		return
	}

	results := directory.FilterStrict(businesses, crit)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []directory.Result{}
	}

	params := advancedParams{
		Query:    crit.Query,
		MaxPrice: crit.MaxPrice,
		MaxSpeed: crit.MaxSpeed,
		OpenNow:  crit.OpenNowOnly,
		RadiusM:  crit.RadiusM,
		SortBy:   string(crit.SortBy),
		Limit:    limit,
	}
	if crit.Origin != nil {
		params.Lat = &crit.Origin.Lat
		params.Lng = &crit.Origin.Lng
	}

	writeJSON(w, http.StatusOK, advancedResponse{
		Results:      results,
		Count:        len(results),
		SearchParams: params,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if latRaw == "" || lngRaw == "" {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lng, lngErr := strconv.ParseFloat(lngRaw, 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}

	radius, err := floatParam(q.Get("radius"), h.opts.Search.NearbyRadiusM)
	if err != nil || radius <= 0 {
		writeError(w, http.StatusBadRequest, "radius must be a positive number")
		return
	}

	limit := h.opts.Search.NearbyLimit
	if raw := q.Get("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > h.opts.Search.MaxLimit {
		limit = h.opts.Search.MaxLimit
	}

	businesses, storeErr := h.store.ListBusinesses(r.Context())
	if storeErr != nil {
		zap.L().Error("api: list businesses", zap.Error(storeErr))
		writeError(w, http.StatusInternalServerError, "failed to load laundries")
		return
	}

	results := directory.FilterStrict(businesses, directory.Criteria{
		Origin:  &directory.Origin{Lat: lat, Lng: lng},
		RadiusM: radius,
		SortBy:  directory.SortDistance,
	})
	if len(results) > limit {
		results = results[:limit]
	}

	nearby := make([]model.Business, 0, len(results))
	for _, res := range results {
		nearby = append(nearby, res.Business)
	}
	writeJSON(w, http.StatusOK, nearby)
}

func (h *Handler) handleChoropleth(w http.ResponseWriter, r *http.Request) {
	metricRaw := r.URL.Query().Get("metric")
	if metricRaw == "" {
		metricRaw = string(model.MetricPrice)
	}
	metric, err := model.ParseMetric(metricRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "metric must be price or speed")
		return
	}

	ds, err := h.districts.Get()
	if err != nil {
		zap.L().Error("api: load districts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load districts")
		return
	}

	businesses, err := h.store.ListBusinesses(r.Context())
	if err != nil {
		zap.L().Error("api: list businesses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load laundries")
		return
	}

	densities := directory.Aggregate(businesses, ds, metric)
	if densities == nil {
		densities = []model.DistrictDensity{}
	}
	writeJSON(w, http.StatusOK, densities)
}

func (h *Handler) handleDistricts(w http.ResponseWriter, _ *http.Request) {
	ds, err := h.districts.Get()
	if err != nil {
		zap.L().Error("api: load districts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load districts")
		return
	}

	fc, err := districts.ToFeatureCollection(ds)
	if err != nil {
		zap.L().Error("api: serialize districts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to serialize districts")
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// statsResponse joins table aggregates with the district count.
type statsResponse struct {
	model.StoreStats
	Districts int `json:"districts"`
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		zap.L().Error("api: stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	ds, err := h.districts.Get()
	if err != nil {
		zap.L().Error("api: load districts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load districts")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{StoreStats: *stats, Districts: len(ds)})
}

func floatParam(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func boolParam(raw string) bool {
	return raw == "true" || raw == "1"
}

func sortKeyParam(raw string) (directory.SortKey, error) {
	switch key := directory.SortKey(raw); key {
	case directory.SortDefault, directory.SortPrice, directory.SortSpeed,
		directory.SortName, directory.SortDistance:
		return key, nil
	default:
		return directory.SortDefault, eris.Errorf("unknown sort key %q", raw)
	}
}
