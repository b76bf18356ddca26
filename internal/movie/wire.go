//go:build wireinject
// +build wireinject

package movie

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/tair/movie-catalog/internal/movie/delivery/http"
	"github.com/tair/movie-catalog/pkg/auth"
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.Manager) (*httpDelivery.MovieHandler, error) {
	wire.Build(
		RepositorySet,
		httpDelivery.NewMovieHandler,
	)
	return nil, nil
}
