package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/movie-catalog/internal/popularity/domain"
	"github.com/tair/movie-catalog/kafka"
)

// fakePopularityRepo mimics the transactional repository: the dedup check and
// the increment happen under one lock.
type fakePopularityRepo struct {
	mu        sync.Mutex
	counts    map[uint]int64
	processed map[string]bool
}

func newFakePopularityRepo() *fakePopularityRepo {
	return &fakePopularityRepo{
		counts:    map[uint]int64{},
		processed: map[string]bool{},
	}
}

func (f *fakePopularityRepo) Apply(ctx context.Context, eventID string, movieID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.processed[eventID] {
		return false, nil
	}
	f.processed[eventID] = true
	f.counts[movieID]++
	return true, nil
}

func (f *fakePopularityRepo) FindByMovieID(ctx context.Context, movieID uint) (*domain.MoviePopularity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count, ok := f.counts[movieID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.MoviePopularity{MovieID: movieID, FavouriteCount: count}, nil
}

func (f *fakePopularityRepo) ListTop(ctx context.Context, limit int) ([]domain.MoviePopularity, error) {
	return nil, nil
}

func event(id string, movieID uint, username string) kafka.FavouriteAddedEvent {
	return kafka.FavouriteAddedEvent{
		EventID:   id,
		EventType: kafka.EventTypeFavouriteAdded,
		Username:  username,
		MovieID:   movieID,
	}
}

func TestApplyFavourite_FirstEvent(t *testing.T) {
	repo := newFakePopularityRepo()
	handler := NewApplyFavouriteHandler(repo)

	err := handler.Handle(context.Background(), event("evt-1", 42, "alice"))
	require.NoError(t, err)

	popularity, err := repo.FindByMovieID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), popularity.FavouriteCount)
}

func TestApplyFavourite_SequentialEvents(t *testing.T) {
	repo := newFakePopularityRepo()
	handler := NewApplyFavouriteHandler(repo)

	for i := 0; i < 5; i++ {
		err := handler.Handle(context.Background(), event(fmt.Sprintf("evt-%d", i), 42, "alice"))
		require.NoError(t, err)
	}

	popularity, err := repo.FindByMovieID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(5), popularity.FavouriteCount)
}

func TestApplyFavourite_TwoUsersSameMovie(t *testing.T) {
	repo := newFakePopularityRepo()
	handler := NewApplyFavouriteHandler(repo)

	require.NoError(t, handler.Handle(context.Background(), event("evt-alice", 42, "alice")))
	require.NoError(t, handler.Handle(context.Background(), event("evt-bob", 42, "bob")))

	popularity, err := repo.FindByMovieID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), popularity.FavouriteCount)
}

func TestApplyFavourite_RedeliveryDoesNotDoubleCount(t *testing.T) {
	repo := newFakePopularityRepo()
	handler := NewApplyFavouriteHandler(repo)

	require.NoError(t, handler.Handle(context.Background(), event("evt-alice", 42, "alice")))
	require.NoError(t, handler.Handle(context.Background(), event("evt-bob", 42, "bob")))

	// At-least-once delivery replays the first event
	require.NoError(t, handler.Handle(context.Background(), event("evt-alice", 42, "alice")))

	popularity, err := repo.FindByMovieID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), popularity.FavouriteCount)
}

func TestApplyFavourite_ConcurrentEvents(t *testing.T) {
	repo := newFakePopularityRepo()
	handler := NewApplyFavouriteHandler(repo)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = handler.Handle(context.Background(), event(fmt.Sprintf("evt-%d", i), 42, "alice"))
		}(i)
	}
	wg.Wait()

	popularity, err := repo.FindByMovieID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(50), popularity.FavouriteCount)
}

func TestApplyFavourite_Validation(t *testing.T) {
	repo := newFakePopularityRepo()
	handler := NewApplyFavouriteHandler(repo)

	err := handler.Handle(context.Background(), kafka.FavouriteAddedEvent{MovieID: 42})
	assert.Error(t, err)

	err = handler.Handle(context.Background(), kafka.FavouriteAddedEvent{EventID: "evt-1"})
	assert.Error(t, err)

	_, err = repo.FindByMovieID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
