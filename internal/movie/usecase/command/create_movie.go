package command

import (
	"fmt"
	"time"

	"github.com/tair/movie-catalog/internal/movie/domain"
)

// CreateMovieCommand represents the command to add a catalog entry
type CreateMovieCommand struct {
	ID               uint
	Title            string
	OriginalTitle    string
	Overview         string
	GenreIDs         []int64
	OriginalLanguage string
	Popularity       float64
}

// CreateMovieHandler handles movie creation (seed import)
type CreateMovieHandler struct {
	repo domain.MovieRepository
}

// NewCreateMovieHandler creates a new create movie handler
func NewCreateMovieHandler(repo domain.MovieRepository) *CreateMovieHandler {
	return &CreateMovieHandler{repo: repo}
}

// Handle executes the create movie command
func (h *CreateMovieHandler) Handle(cmd CreateMovieCommand) (*domain.Movie, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("movie id is required")
	}
	if cmd.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	movie := &domain.Movie{
		ID:               cmd.ID,
		Title:            cmd.Title,
		OriginalTitle:    cmd.OriginalTitle,
		Overview:         cmd.Overview,
		GenreIDs:         cmd.GenreIDs,
		OriginalLanguage: cmd.OriginalLanguage,
		Popularity:       cmd.Popularity,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.repo.Create(movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	return movie, nil
}
