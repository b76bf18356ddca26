package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("movie not found")

// Movie represents a catalog entry. IDs are externally assigned (the seed
// data carries TMDB ids), so the primary key is not auto-incremented.
type Movie struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title            string    `json:"title" gorm:"not null"`
	OriginalTitle    string    `json:"original_title"`
	Overview         string    `json:"overview" gorm:"type:text"`
	GenreIDs         []int64   `json:"genre_ids" gorm:"serializer:json"`
	OriginalLanguage string    `json:"original_language"`
	Popularity       float64   `json:"popularity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Movie) TableName() string {
	return "movies"
}

// MovieRepository defines the contract for movie data access
type MovieRepository interface {
	Create(movie *Movie) error
	FindByID(id uint) (*Movie, error)
	FindAll(limit, offset int) ([]Movie, error)
	Count() (int64, error)
}
