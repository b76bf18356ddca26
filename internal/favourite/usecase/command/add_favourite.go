package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/tair/movie-catalog/internal/favourite/domain"
	moviedomain "github.com/tair/movie-catalog/internal/movie/domain"
	userdomain "github.com/tair/movie-catalog/internal/user/domain"
	"github.com/tair/movie-catalog/pkg/logger"
)

// AddFavouriteCommand represents the command to mark a movie as favourite
type AddFavouriteCommand struct {
	Username string
	MovieID  uint
}

// AddFavouriteHandler handles favourite registration. Both references are
// verified before the edge is written.
type AddFavouriteHandler struct {
	favourites domain.FavouriteRepository
	users      userdomain.UserRepository
	movies     moviedomain.MovieRepository
}

// NewAddFavouriteHandler creates a new add favourite handler
func NewAddFavouriteHandler(
	favourites domain.FavouriteRepository,
	users userdomain.UserRepository,
	movies moviedomain.MovieRepository,
) *AddFavouriteHandler {
	return &AddFavouriteHandler{
		favourites: favourites,
		users:      users,
		movies:     movies,
	}
}

// Handle executes the add favourite command. Returns created=false when the
// user had already favourited the movie.
func (h *AddFavouriteHandler) Handle(cmd AddFavouriteCommand) (*domain.Favourite, bool, error) {
	if cmd.Username == "" {
		return nil, false, fmt.Errorf("username is required")
	}
	if cmd.MovieID == 0 {
		return nil, false, fmt.Errorf("movie id is required")
	}

	// Always check both references so a missing user does not short-circuit
	// the movie lookup
	_, userErr := h.users.FindByUsername(cmd.Username)
	_, movieErr := h.movies.FindByID(cmd.MovieID)

	userMissing := errors.Is(userErr, userdomain.ErrNotFound)
	movieMissing := errors.Is(movieErr, moviedomain.ErrNotFound)

	if userMissing || movieMissing {
		// The precise cause stays in the logs
		logger.Logger.Warn().
			Str("username", cmd.Username).
			Uint("movie_id", cmd.MovieID).
			Bool("user_missing", userMissing).
			Bool("movie_missing", movieMissing).
			Msg("Favourite rejected: reference not found")
		return nil, false, domain.ErrReferenceNotFound
	}
	if userErr != nil {
		return nil, false, fmt.Errorf("failed to verify user: %w", userErr)
	}
	if movieErr != nil {
		return nil, false, fmt.Errorf("failed to verify movie: %w", movieErr)
	}

	favourite := &domain.Favourite{
		Username:  cmd.Username,
		MovieID:   cmd.MovieID,
		CreatedAt: time.Now(),
	}

	created, err := h.favourites.Insert(favourite)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert favourite: %w", err)
	}

	return favourite, created, nil
}
