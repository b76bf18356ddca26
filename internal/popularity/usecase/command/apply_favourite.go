package command

import (
	"context"
	"fmt"

	"github.com/tair/movie-catalog/internal/popularity/domain"
	"github.com/tair/movie-catalog/kafka"
	"github.com/tair/movie-catalog/pkg/logger"
)

// ApplyFavouriteHandler consumes favourite insertion notifications and
// maintains per-movie counters
type ApplyFavouriteHandler struct {
	repo domain.PopularityRepository
}

// NewApplyFavouriteHandler creates a new apply favourite handler
func NewApplyFavouriteHandler(repo domain.PopularityRepository) *ApplyFavouriteHandler {
	return &ApplyFavouriteHandler{repo: repo}
}

// Handle applies one favourite-added event. Errors propagate to the consumer
// so the offset is not committed and the event is redelivered.
func (h *ApplyFavouriteHandler) Handle(ctx context.Context, event kafka.FavouriteAddedEvent) error {
	if event.EventID == "" {
		return fmt.Errorf("event id is required")
	}
	if event.MovieID == 0 {
		return fmt.Errorf("movie id is required")
	}

	applied, err := h.repo.Apply(ctx, event.EventID, event.MovieID)
	if err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_id", event.EventID).
			Uint("movie_id", event.MovieID).
			Msg("Failed to apply favourite added event")
		return err
	}

	if !applied {
		logger.Info(ctx).
			Str("event_id", event.EventID).
			Uint("movie_id", event.MovieID).
			Msg("Duplicate event skipped")
		return nil
	}

	logger.Info(ctx).
		Str("event_id", event.EventID).
		Str("username", event.Username).
		Uint("movie_id", event.MovieID).
		Msg("Favourite counted")

	return nil
}
