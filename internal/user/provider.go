package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/movie-catalog/internal/user/domain"
	"github.com/tair/movie-catalog/internal/user/repository"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// RepositorySet is the wire provider set for user persistence
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)
