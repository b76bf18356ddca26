package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/movie-catalog/internal/popularity/usecase/query"
	"github.com/tair/movie-catalog/pkg/logger"
)

// PopularityHandler handles HTTP requests for popularity counters
type PopularityHandler struct {
	getHandler  *query.GetPopularityHandler
	listHandler *query.ListPopularHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewPopularityHandler creates a new popularity handler
func NewPopularityHandler(getHandler *query.GetPopularityHandler, listHandler *query.ListPopularHandler) *PopularityHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popularity_service_requests_total",
			Help: "Total number of requests to popularity service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "popularity_service_request_duration_seconds",
			Help:    "Duration of popularity service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &PopularityHandler{
		getHandler:     getHandler,
		listHandler:    listHandler,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *PopularityHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ListPopular handles GET /popular
func (h *PopularityHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	popularities, err := h.listHandler.Handle(r.Context(), query.ListPopularQuery{Limit: limit})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list popular movies")
		respondError(w, http.StatusInternalServerError, "Failed to list popular movies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  popularities,
		"total": len(popularities),
	})
}

// GetPopularity handles GET /popular/{movieId}
func (h *PopularityHandler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	movieID, err := strconv.ParseUint(vars["movieId"], 10, 32)
	if err != nil || movieID == 0 {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	popularity, err := h.getHandler.Handle(r.Context(), query.GetPopularityQuery{MovieID: uint(movieID)})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint64("movie_id", movieID).Msg("Failed to get popularity")
		respondError(w, http.StatusInternalServerError, "Failed to get popularity")
		return
	}

	respondJSON(w, http.StatusOK, popularity)
}

// RegisterRoutes registers all popularity routes
func (h *PopularityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/popular", h.metricsMiddleware("/popular", h.ListPopular)).Methods("GET")
	router.HandleFunc("/popular/{movieId}", h.metricsMiddleware("/popular/{movieId}", h.GetPopularity)).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *PopularityHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
