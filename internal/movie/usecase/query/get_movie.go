package query

import (
	"fmt"

	"github.com/tair/movie-catalog/internal/movie/domain"
)

// GetMovieQuery represents the query to get a movie by id
type GetMovieQuery struct {
	ID uint
}

// GetMovieHandler handles get movie queries
type GetMovieHandler struct {
	repo domain.MovieRepository
}

// NewGetMovieHandler creates a new get movie handler
func NewGetMovieHandler(repo domain.MovieRepository) *GetMovieHandler {
	return &GetMovieHandler{repo: repo}
}

// Handle executes the get movie query
func (h *GetMovieHandler) Handle(q GetMovieQuery) (*domain.Movie, error) {
	if q.ID == 0 {
		return nil, fmt.Errorf("movie id is required")
	}
	return h.repo.FindByID(q.ID)
}
