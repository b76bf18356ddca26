package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/movie-catalog/internal/popularity/domain"
)

// GetPopularityQuery represents the query to get a movie's favourite count
type GetPopularityQuery struct {
	MovieID uint
}

// GetPopularityHandler handles get popularity queries
type GetPopularityHandler struct {
	repo domain.PopularityRepository
}

// NewGetPopularityHandler creates a new get popularity handler
func NewGetPopularityHandler(repo domain.PopularityRepository) *GetPopularityHandler {
	return &GetPopularityHandler{repo: repo}
}

// Handle executes the get popularity query. A movie nobody has favourited
// yet reports a zero count rather than an error.
func (h *GetPopularityHandler) Handle(ctx context.Context, q GetPopularityQuery) (*domain.MoviePopularity, error) {
	if q.MovieID == 0 {
		return nil, fmt.Errorf("movie id is required")
	}

	popularity, err := h.repo.FindByMovieID(ctx, q.MovieID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.MoviePopularity{MovieID: q.MovieID, FavouriteCount: 0}, nil
		}
		return nil, err
	}
	return popularity, nil
}
