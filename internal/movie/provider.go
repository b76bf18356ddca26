package movie

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/movie-catalog/internal/movie/domain"
	"github.com/tair/movie-catalog/internal/movie/repository"
)

// ProvideMovieRepository provides the movie repository
func ProvideMovieRepository(db *gorm.DB) domain.MovieRepository {
	return repository.NewGormMovieRepository(db)
}

// RepositorySet is the wire provider set for movie persistence
var RepositorySet = wire.NewSet(
	ProvideMovieRepository,
)
