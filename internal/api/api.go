// Package api exposes the directory pipeline over a JSON REST surface.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/laundrymap/laundrymap/internal/config"
	"github.com/laundrymap/laundrymap/internal/districts"
	"github.com/laundrymap/laundrymap/internal/store"
)

// Options carries the server and search sections of the configuration.
type Options struct {
	Server config.ServerConfig
	Search config.SearchConfig
}

// Handler serves the REST API over a store and a district cache.
type Handler struct {
	store     store.Store
	districts *districts.Cache
	opts      Options
	started   time.Time
}

// NewHandler wires the API over its dependencies.
func NewHandler(st store.Store, dc *districts.Cache, opts Options) *Handler {
	return &Handler{store: st, districts: dc, opts: opts, started: time.Now()}
}

// Router builds the chi router: CORS and request logging on everything, a
// general per-client rate limit under /api, and a stricter one on the
// search endpoints.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	general := newIPLimiter(rate.Limit(h.opts.Server.RatePerSecond), h.opts.Server.RateBurst)
	searchBurst := int(h.opts.Server.SearchPerMinute)
	if searchBurst < 1 {
		searchBurst = 1
	}
	search := newIPLimiter(rate.Limit(h.opts.Server.SearchPerMinute/60.0), searchBurst)

	r.Route("/api", func(r chi.Router) {
		r.Use(general.middleware)

		r.Get("/health", h.handleHealth)
		r.Get("/stats", h.handleStats)
		r.Get("/districts", h.handleDistricts)
		r.Get("/choropleth", h.handleChoropleth)

		r.Route("/laundries", func(r chi.Router) {
			r.Get("/", h.handleList)
			r.Post("/", h.handleCreate)
			r.Get("/nearby", h.handleNearby)
			r.Get("/markers", h.handleMarkers)
		})

		r.Route("/search", func(r chi.Router) {
			r.Use(search.middleware)
			r.Get("/", h.handleSearch)
			r.Get("/advanced", h.handleAdvanced)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
