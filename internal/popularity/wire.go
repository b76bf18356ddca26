//go:build wireinject
// +build wireinject

package popularity

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/tair/movie-catalog/internal/popularity/delivery/http"
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*httpDelivery.PopularityHandler, error) {
	wire.Build(
		UsecaseSet,
		httpDelivery.NewPopularityHandler,
	)
	return nil, nil
}
