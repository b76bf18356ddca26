package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/movie-catalog/internal/popularity/domain"
)

// GormPopularityRepository implements PopularityRepository using GORM
type GormPopularityRepository struct {
	db *gorm.DB
}

// NewGormPopularityRepository creates a new GORM popularity repository
func NewGormPopularityRepository(db *gorm.DB) *GormPopularityRepository {
	return &GormPopularityRepository{db: db}
}

// Apply records the event id and increments the movie counter in one
// transaction. The dedup insert and the increment commit or roll back
// together, so a redelivered event can never double-count and a crash
// between the two steps cannot strand a half-applied event.
func (r *GormPopularityRepository) Apply(ctx context.Context, eventID string, movieID uint) (bool, error) {
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dedup := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.ProcessedEvent{
			EventID:     eventID,
			MovieID:     movieID,
			ProcessedAt: time.Now(),
		})
		if dedup.Error != nil {
			return fmt.Errorf("failed to record event: %w", dedup.Error)
		}
		if dedup.RowsAffected == 0 {
			// Already applied, nothing to do
			return nil
		}

		increment := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "movie_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"favourite_count": gorm.Expr("movie_popularity.favourite_count + 1"),
				"updated_at":      time.Now(),
			}),
		}).Create(&domain.MoviePopularity{
			MovieID:        movieID,
			FavouriteCount: 1,
			UpdatedAt:      time.Now(),
		})
		if increment.Error != nil {
			return fmt.Errorf("failed to increment counter: %w", increment.Error)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

// FindByMovieID retrieves the counter for a movie
func (r *GormPopularityRepository) FindByMovieID(ctx context.Context, movieID uint) (*domain.MoviePopularity, error) {
	var popularity domain.MoviePopularity
	err := r.db.WithContext(ctx).First(&popularity, "movie_id = ?", movieID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find popularity: %w", err)
	}
	return &popularity, nil
}

// ListTop retrieves the most favourited movies
func (r *GormPopularityRepository) ListTop(ctx context.Context, limit int) ([]domain.MoviePopularity, error) {
	var popularities []domain.MoviePopularity
	err := r.db.WithContext(ctx).
		Order("favourite_count DESC").
		Limit(limit).
		Find(&popularities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list popularity: %w", err)
	}
	return popularities, nil
}

// AutoMigrate runs database migrations
func (r *GormPopularityRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.MoviePopularity{}, &domain.ProcessedEvent{})
}
