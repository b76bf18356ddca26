package query

import (
	"context"

	"github.com/tair/movie-catalog/internal/popularity/domain"
)

// ListPopularQuery represents the query for the most favourited movies
type ListPopularQuery struct {
	Limit int
}

// ListPopularHandler handles list popular queries
type ListPopularHandler struct {
	repo domain.PopularityRepository
}

// NewListPopularHandler creates a new list popular handler
func NewListPopularHandler(repo domain.PopularityRepository) *ListPopularHandler {
	return &ListPopularHandler{repo: repo}
}

// Handle executes the list popular query
func (h *ListPopularHandler) Handle(ctx context.Context, q ListPopularQuery) ([]domain.MoviePopularity, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return h.repo.ListTop(ctx, limit)
}
