package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no counter exists for a movie
var ErrNotFound = errors.New("popularity record not found")

// MoviePopularity is the favourite counter for one movie. It is written only
// through atomic increments, never read-modify-write, so concurrent consumers
// cannot lose updates.
type MoviePopularity struct {
	MovieID        uint      `json:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	FavouriteCount int64     `json:"favourite_count" gorm:"not null;default:0"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the GORM table name
func (MoviePopularity) TableName() string {
	return "movie_popularity"
}

// ProcessedEvent records an event id that has already been applied. Redelivered
// events hit the primary key and are skipped.
type ProcessedEvent struct {
	EventID     string    `json:"event_id" gorm:"primaryKey"`
	MovieID     uint      `json:"movie_id" gorm:"not null"`
	ProcessedAt time.Time `json:"processed_at"`
}

// TableName overrides the GORM table name
func (ProcessedEvent) TableName() string {
	return "processed_events"
}

// PopularityRepository defines popularity persistence operations
type PopularityRepository interface {
	// Apply increments the counter for movieID exactly once per eventID.
	// Returns applied=false when the event was already processed.
	Apply(ctx context.Context, eventID string, movieID uint) (applied bool, err error)
	FindByMovieID(ctx context.Context, movieID uint) (*MoviePopularity, error)
	ListTop(ctx context.Context, limit int) ([]MoviePopularity, error)
}
