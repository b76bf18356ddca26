package query

import (
	"github.com/tair/movie-catalog/internal/movie/domain"
)

// ListMoviesQuery represents the query to list catalog entries
type ListMoviesQuery struct {
	Limit  int
	Offset int
}

// ListMoviesHandler handles list movies queries
type ListMoviesHandler struct {
	repo domain.MovieRepository
}

// NewListMoviesHandler creates a new list movies handler
func NewListMoviesHandler(repo domain.MovieRepository) *ListMoviesHandler {
	return &ListMoviesHandler{repo: repo}
}

// Handle executes the list movies query
func (h *ListMoviesHandler) Handle(q ListMoviesQuery) ([]domain.Movie, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return h.repo.FindAll(limit, q.Offset)
}
