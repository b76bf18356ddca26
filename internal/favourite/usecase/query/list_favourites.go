package query

import (
	"fmt"

	"github.com/tair/movie-catalog/internal/favourite/domain"
)

// ListFavouritesQuery represents the query to list a user's favourites
type ListFavouritesQuery struct {
	Username string
}

// ListFavouritesHandler handles list favourites queries
type ListFavouritesHandler struct {
	repo domain.FavouriteRepository
}

// NewListFavouritesHandler creates a new list favourites handler
func NewListFavouritesHandler(repo domain.FavouriteRepository) *ListFavouritesHandler {
	return &ListFavouritesHandler{repo: repo}
}

// Handle executes the list favourites query
func (h *ListFavouritesHandler) Handle(q ListFavouritesQuery) ([]domain.Favourite, error) {
	if q.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	return h.repo.FindByUsername(q.Username)
}
