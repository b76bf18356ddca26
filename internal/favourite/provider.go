package favourite

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/movie-catalog/internal/favourite/domain"
	"github.com/tair/movie-catalog/internal/favourite/repository"
	"github.com/tair/movie-catalog/internal/favourite/usecase/command"
	"github.com/tair/movie-catalog/internal/favourite/usecase/query"
)

// ProvideFavouriteRepository provides the favourite repository
func ProvideFavouriteRepository(db *gorm.DB) domain.FavouriteRepository {
	return repository.NewGormFavouriteRepository(db)
}

// UsecaseSet is the wire provider set for favourite use cases
var UsecaseSet = wire.NewSet(
	ProvideFavouriteRepository,
	command.NewAddFavouriteHandler,
	query.NewListFavouritesHandler,
)
