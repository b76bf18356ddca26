package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/movie-catalog/internal/favourite/domain"
	"github.com/tair/movie-catalog/internal/favourite/usecase/command"
	"github.com/tair/movie-catalog/internal/favourite/usecase/query"
	userHTTP "github.com/tair/movie-catalog/internal/user/delivery/http"
	"github.com/tair/movie-catalog/kafka"
	"github.com/tair/movie-catalog/pkg/auth"
	"github.com/tair/movie-catalog/pkg/logger"
)

// FavouritePublisher publishes the insertion notification for a freshly
// committed favourite edge
type FavouritePublisher interface {
	PublishFavouriteAdded(ctx context.Context, event kafka.FavouriteAddedEvent) error
}

// FavouriteHandler handles HTTP requests for favourites
type FavouriteHandler struct {
	addHandler  *command.AddFavouriteHandler
	listHandler *query.ListFavouritesHandler

	tokens    *auth.Manager
	publisher FavouritePublisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewFavouriteHandler creates a new favourite handler
func NewFavouriteHandler(
	addHandler *command.AddFavouriteHandler,
	listHandler *query.ListFavouritesHandler,
	tokens *auth.Manager,
	publisher FavouritePublisher,
) *FavouriteHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favourite_service_requests_total",
			Help: "Total number of requests to favourite service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "favourite_service_request_duration_seconds",
			Help:    "Duration of favourite service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &FavouriteHandler{
		addHandler:     addHandler,
		listHandler:    listHandler,
		tokens:         tokens,
		publisher:      publisher,
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

func (h *FavouriteHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// AddFavourite handles POST /favourites. The username always comes from the
// verified token, never from the request body.
func (h *FavouriteHandler) AddFavourite(w http.ResponseWriter, r *http.Request) {
	username, ok := r.Context().Value(userHTTP.UsernameKey).(string)
	if !ok || username == "" {
		respondError(w, http.StatusUnauthorized, "Invalid or missing token")
		return
	}

	var req struct {
		MovieID uint `json:"movie_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MovieID == 0 {
		respondError(w, http.StatusBadRequest, "movie_id is required")
		return
	}

	cmd := command.AddFavouriteCommand{
		Username: username,
		MovieID:  req.MovieID,
	}

	favourite, created, err := h.addHandler.Handle(cmd)
	if err != nil {
		if errors.Is(err, domain.ErrReferenceNotFound) {
			respondError(w, http.StatusNotFound, "User or movie not found")
			return
		}
		logger.Logger.Error().
			Err(err).
			Str("username", username).
			Uint("movie_id", req.MovieID).
			Msg("Failed to add favourite")
		respondError(w, http.StatusInternalServerError, "Failed to add favourite")
		return
	}

	// Only a new edge feeds the popularity pipeline; a repeated favourite
	// must not count twice
	if created && h.publisher != nil {
		event := kafka.FavouriteAddedEvent{
			Username: favourite.Username,
			MovieID:  favourite.MovieID,
		}
		if err := h.publisher.PublishFavouriteAdded(r.Context(), event); err != nil {
			logger.Logger.Error().
				Err(err).
				Str("username", favourite.Username).
				Uint("movie_id", favourite.MovieID).
				Msg("Failed to publish favourite added event")
		}
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}

	respondJSON(w, status, map[string]interface{}{
		"favourite": favourite,
		"created":   created,
	})
}

// ListFavourites handles GET /favourites for the authenticated user
func (h *FavouriteHandler) ListFavourites(w http.ResponseWriter, r *http.Request) {
	username, ok := r.Context().Value(userHTTP.UsernameKey).(string)
	if !ok || username == "" {
		respondError(w, http.StatusUnauthorized, "Invalid or missing token")
		return
	}

	favourites, err := h.listHandler.Handle(query.ListFavouritesQuery{Username: username})
	if err != nil {
		logger.Logger.Error().Err(err).Str("username", username).Msg("Failed to list favourites")
		respondError(w, http.StatusInternalServerError, "Failed to list favourites")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  favourites,
		"total": len(favourites),
	})
}

// RegisterRoutes registers all favourite routes
func (h *FavouriteHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/favourites", h.metricsMiddleware("/favourites", userHTTP.AuthMiddleware(h.tokens, h.AddFavourite))).Methods("POST")
	router.HandleFunc("/favourites", h.metricsMiddleware("/favourites", userHTTP.AuthMiddleware(h.tokens, h.ListFavourites))).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *FavouriteHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
