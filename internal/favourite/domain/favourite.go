package domain

import (
	"errors"
	"time"
)

// ErrReferenceNotFound is returned when the user or the movie behind a
// favourite request does not exist. Callers get one combined error so the
// response does not reveal which side was missing.
var ErrReferenceNotFound = errors.New("user or movie not found")

// Favourite is one user-movie edge. The composite unique index makes
// repeated inserts of the same pair no-ops.
type Favourite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"not null;uniqueIndex:idx_user_movie"`
	MovieID   uint      `json:"movie_id" gorm:"not null;uniqueIndex:idx_user_movie"`
	CreatedAt time.Time `json:"created_at"`
}

// FavouriteRepository defines favourite persistence operations
type FavouriteRepository interface {
	// Insert writes the edge if absent. Returns created=false when the
	// pair already existed.
	Insert(favourite *Favourite) (created bool, err error)
	FindByUsername(username string) ([]Favourite, error)
	Count() (int64, error)
}
