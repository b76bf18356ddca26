//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/tair/movie-catalog/internal/user/delivery/http"
	"github.com/tair/movie-catalog/pkg/auth"
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.Manager, publisher httpDelivery.RegistrationPublisher) (*httpDelivery.UserHandler, error) {
	wire.Build(
		RepositorySet,
		httpDelivery.NewUserHandler,
	)
	return nil, nil
}
