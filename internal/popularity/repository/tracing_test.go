package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tair/movie-catalog/internal/popularity/domain"
)

type stubPopularityRepo struct {
	record  *domain.MoviePopularity
	findErr error
}

func (s *stubPopularityRepo) Apply(ctx context.Context, eventID string, movieID uint) (bool, error) {
	return true, nil
}

func (s *stubPopularityRepo) FindByMovieID(ctx context.Context, movieID uint) (*domain.MoviePopularity, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.record, nil
}

func (s *stubPopularityRepo) ListTop(ctx context.Context, limit int) ([]domain.MoviePopularity, error) {
	return nil, nil
}

func TestTracingRepository_FindByMovieID_ErrorRecording(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(previous)

	t.Run("absent counter is not a span error", func(t *testing.T) {
		repo := NewTracingPopularityRepository(&stubPopularityRepo{findErr: domain.ErrNotFound})

		_, err := repo.FindByMovieID(context.Background(), 7)
		require.ErrorIs(t, err, domain.ErrNotFound)

		spans := recorder.Ended()
		require.NotEmpty(t, spans)
		assert.Empty(t, spans[len(spans)-1].Events(), "zero-count lookup should not record an error event")
	})

	t.Run("storage failure is recorded", func(t *testing.T) {
		storageErr := errors.New("connection reset by peer")
		repo := NewTracingPopularityRepository(&stubPopularityRepo{findErr: storageErr})

		_, err := repo.FindByMovieID(context.Background(), 7)
		require.ErrorIs(t, err, storageErr)

		spans := recorder.Ended()
		require.NotEmpty(t, spans)
		events := spans[len(spans)-1].Events()
		require.Len(t, events, 1)
		assert.Equal(t, "exception", events[0].Name)
	})
}
