package repository

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/movie-catalog/internal/popularity/domain"
)

func newPostgresRepo(t testing.TB) *GormPopularityRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping embedded postgres test in short mode")
	}

	baseDir := t.TempDir()
	runtimeDir := filepath.Join(baseDir, "runtime")
	dataDir := filepath.Join(baseDir, "data")
	cacheDir := filepath.Join(baseDir, "cache")
	_ = os.Mkdir(runtimeDir, 0o755)
	_ = os.Mkdir(dataDir, 0o755)
	_ = os.Mkdir(cacheDir, 0o755)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	port := 40000 + rnd.Intn(2000)

	pg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username("postgres").
		Password("postgres").
		Database("popularity_test").
		Port(uint32(port)).
		DataPath(dataDir).
		RuntimePath(runtimeDir).
		CachePath(cacheDir).
		Logger(io.Discard))

	require.NoError(t, pg.Start())
	t.Cleanup(func() { _ = pg.Stop() })

	dsn := fmt.Sprintf("host=localhost port=%d user=postgres password=postgres dbname=popularity_test sslmode=disable", port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.MoviePopularity{}, &domain.ProcessedEvent{}))

	return NewGormPopularityRepository(db)
}

func TestGormPopularityRepository_Apply(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	t.Run("concurrent increments never lose an update", func(t *testing.T) {
		const workers = 50

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				applied, err := repo.Apply(ctx, fmt.Sprintf("evt-%03d", i), 7)
				if err != nil {
					errs <- err
					return
				}
				if !applied {
					errs <- fmt.Errorf("event evt-%03d reported duplicate on first delivery", i)
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Error(err)
		}

		record, err := repo.FindByMovieID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(workers), record.FavouriteCount)
	})

	t.Run("redelivered event does not double count", func(t *testing.T) {
		applied, err := repo.Apply(ctx, "evt-007", 7)
		require.NoError(t, err)
		assert.False(t, applied)

		record, err := repo.FindByMovieID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(50), record.FavouriteCount)
	})

	t.Run("distinct movies keep independent counters", func(t *testing.T) {
		applied, err := repo.Apply(ctx, "evt-other-movie", 8)
		require.NoError(t, err)
		assert.True(t, applied)

		record, err := repo.FindByMovieID(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, int64(1), record.FavouriteCount)
	})

	t.Run("unknown movie reports not found", func(t *testing.T) {
		_, err := repo.FindByMovieID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
