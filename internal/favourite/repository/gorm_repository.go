package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/movie-catalog/internal/favourite/domain"
)

// GormFavouriteRepository implements FavouriteRepository using GORM
type GormFavouriteRepository struct {
	db *gorm.DB
}

// NewGormFavouriteRepository creates a new GORM favourite repository
func NewGormFavouriteRepository(db *gorm.DB) *GormFavouriteRepository {
	return &GormFavouriteRepository{db: db}
}

// Insert writes the user-movie edge. A conflicting pair is left untouched
// and reported via created=false.
func (r *GormFavouriteRepository) Insert(favourite *domain.Favourite) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "movie_id"}},
		DoNothing: true,
	}).Create(favourite)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert favourite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FindByUsername retrieves all favourites for a user
func (r *GormFavouriteRepository) FindByUsername(username string) ([]domain.Favourite, error) {
	var favourites []domain.Favourite
	err := r.db.Where("username = ?", username).
		Order("created_at DESC").
		Find(&favourites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favourites: %w", err)
	}
	return favourites, nil
}

// Count returns the total number of favourite edges
func (r *GormFavouriteRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Favourite{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count favourites: %w", err)
	}
	return count, nil
}

// AutoMigrate runs database migrations
func (r *GormFavouriteRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Favourite{})
}
