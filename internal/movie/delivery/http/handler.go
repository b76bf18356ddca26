package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/movie-catalog/internal/movie/domain"
	"github.com/tair/movie-catalog/internal/movie/usecase/command"
	"github.com/tair/movie-catalog/internal/movie/usecase/query"
	userHTTP "github.com/tair/movie-catalog/internal/user/delivery/http"
	"github.com/tair/movie-catalog/pkg/auth"
	"github.com/tair/movie-catalog/pkg/logger"
)

// MovieHandler handles HTTP requests for the movie catalog
type MovieHandler struct {
	createHandler *command.CreateMovieHandler
	getHandler    *query.GetMovieHandler
	listHandler   *query.ListMoviesHandler

	repo   domain.MovieRepository
	tokens *auth.Manager

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(repo domain.MovieRepository, tokens *auth.Manager) *MovieHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_service_requests_total",
			Help: "Total number of requests to movie service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_service_request_duration_seconds",
			Help:    "Duration of movie service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &MovieHandler{
		createHandler:  command.NewCreateMovieHandler(repo),
		getHandler:     query.NewGetMovieHandler(repo),
		listHandler:    query.NewListMoviesHandler(repo),
		repo:           repo,
		tokens:         tokens,
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

func (h *MovieHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ListMovies handles GET /movies
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	q := query.ListMoviesQuery{Limit: limit, Offset: offset}
	movies, err := h.listHandler.Handle(q)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list movies")
		respondError(w, http.StatusInternalServerError, "Failed to list movies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  movies,
		"total": len(movies),
	})
}

// GetMovie handles GET /movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	q := query.GetMovieQuery{ID: uint(id)}
	movie, err := h.getHandler.Handle(q)
	if err != nil {
		respondError(w, http.StatusNotFound, "Movie not found")
		return
	}

	respondJSON(w, http.StatusOK, movie)
}

// CreateMovie handles POST /movies (admin only, seed import)
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID               uint    `json:"id"`
		Title            string  `json:"title"`
		OriginalTitle    string  `json:"original_title"`
		Overview         string  `json:"overview"`
		GenreIDs         []int64 `json:"genre_ids"`
		OriginalLanguage string  `json:"original_language"`
		Popularity       float64 `json:"popularity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.CreateMovieCommand{
		ID:               req.ID,
		Title:            req.Title,
		OriginalTitle:    req.OriginalTitle,
		Overview:         req.Overview,
		GenreIDs:         req.GenreIDs,
		OriginalLanguage: req.OriginalLanguage,
		Popularity:       req.Popularity,
	}

	movie, err := h.createHandler.Handle(cmd)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, movie)
}

// RegisterRoutes registers all movie routes
func (h *MovieHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/movies", h.metricsMiddleware("/movies", h.ListMovies)).Methods("GET")
	router.HandleFunc("/movies/{id}", h.metricsMiddleware("/movies/{id}", h.GetMovie)).Methods("GET")
	router.HandleFunc("/movies", h.metricsMiddleware("/movies", userHTTP.AdminMiddleware(h.tokens, h.CreateMovie))).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *MovieHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
