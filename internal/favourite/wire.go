//go:build wireinject
// +build wireinject

package favourite

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/tair/movie-catalog/internal/favourite/delivery/http"
	"github.com/tair/movie-catalog/internal/movie"
	"github.com/tair/movie-catalog/internal/user"
	"github.com/tair/movie-catalog/pkg/auth"
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.Manager, publisher httpDelivery.FavouritePublisher) (*httpDelivery.FavouriteHandler, error) {
	wire.Build(
		UsecaseSet,
		user.RepositorySet,
		movie.RepositorySet,
		httpDelivery.NewFavouriteHandler,
	)
	return nil, nil
}
