package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/movie-catalog/internal/popularity/domain"
)

// TracingPopularityRepository decorates a PopularityRepository with
// OpenTelemetry spans
type TracingPopularityRepository struct {
	inner  domain.PopularityRepository
	tracer trace.Tracer
}

// NewTracingPopularityRepository wraps a repository with tracing
func NewTracingPopularityRepository(inner domain.PopularityRepository) *TracingPopularityRepository {
	return &TracingPopularityRepository{
		inner:  inner,
		tracer: otel.Tracer("popularity-repository"),
	}
}

func (r *TracingPopularityRepository) Apply(ctx context.Context, eventID string, movieID uint) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.apply",
		trace.WithAttributes(
			attribute.String("event.id", eventID),
			attribute.Int64("movie.id", int64(movieID)),
		),
	)
	defer span.End()

	applied, err := r.inner.Apply(ctx, eventID, movieID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply failed")
		return false, err
	}

	span.SetAttributes(attribute.Bool("event.applied", applied))
	return applied, nil
}

func (r *TracingPopularityRepository) FindByMovieID(ctx context.Context, movieID uint) (*domain.MoviePopularity, error) {
	ctx, span := r.tracer.Start(ctx, "repository.find_by_movie_id",
		trace.WithAttributes(attribute.Int64("movie.id", int64(movieID))),
	)
	defer span.End()

	popularity, err := r.inner.FindByMovieID(ctx, movieID)
	if err != nil {
		// an absent counter is the ordinary zero-count case, not a failure
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	return popularity, nil
}

func (r *TracingPopularityRepository) ListTop(ctx context.Context, limit int) ([]domain.MoviePopularity, error) {
	ctx, span := r.tracer.Start(ctx, "repository.list_top",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	popularities, err := r.inner.ListTop(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return popularities, nil
}
