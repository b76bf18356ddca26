package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/movie-catalog/internal/movie/domain"
)

// GormMovieRepository implements MovieRepository using GORM
type GormMovieRepository struct {
	db *gorm.DB
}

// NewGormMovieRepository creates a new GORM movie repository
func NewGormMovieRepository(db *gorm.DB) *GormMovieRepository {
	return &GormMovieRepository{db: db}
}

// Create inserts a movie; re-importing an existing id updates it in place
// so seed runs are repeatable
func (r *GormMovieRepository) Create(movie *domain.Movie) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(movie).Error
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

// FindByID retrieves a movie by its id
func (r *GormMovieRepository) FindByID(id uint) (*domain.Movie, error) {
	var movie domain.Movie
	if err := r.db.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}
	return &movie, nil
}

// FindAll retrieves movies with pagination
func (r *GormMovieRepository) FindAll(limit, offset int) ([]domain.Movie, error) {
	var movies []domain.Movie
	query := r.db.Order("popularity DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	return movies, nil
}

// Count returns the total number of movies
func (r *GormMovieRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Movie{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// AutoMigrate runs database migrations
func (r *GormMovieRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Movie{})
}
