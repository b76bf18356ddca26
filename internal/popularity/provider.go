package popularity

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/movie-catalog/internal/popularity/domain"
	"github.com/tair/movie-catalog/internal/popularity/repository"
	"github.com/tair/movie-catalog/internal/popularity/usecase/query"
)

// ProvidePopularityRepository provides the popularity repository wrapped
// with tracing
func ProvidePopularityRepository(db *gorm.DB) domain.PopularityRepository {
	return repository.NewTracingPopularityRepository(
		repository.NewGormPopularityRepository(db),
	)
}

// UsecaseSet is the wire provider set for popularity queries
var UsecaseSet = wire.NewSet(
	ProvidePopularityRepository,
	query.NewGetPopularityHandler,
	query.NewListPopularHandler,
)
