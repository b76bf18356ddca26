package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/movie-catalog/internal/favourite/domain"
	"github.com/tair/movie-catalog/internal/favourite/usecase/command"
	"github.com/tair/movie-catalog/internal/favourite/usecase/query"
	moviedomain "github.com/tair/movie-catalog/internal/movie/domain"
	userdomain "github.com/tair/movie-catalog/internal/user/domain"
	"github.com/tair/movie-catalog/kafka"
	"github.com/tair/movie-catalog/pkg/auth"
)

type stubUserRepo struct {
	users map[string]*userdomain.User
}

func (s *stubUserRepo) Create(user *userdomain.User) error { return nil }

func (s *stubUserRepo) FindByID(id uint) (*userdomain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, userdomain.ErrNotFound
}

func (s *stubUserRepo) FindByUsername(username string) (*userdomain.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, userdomain.ErrNotFound
}

func (s *stubUserRepo) FindByEmail(email string) (*userdomain.User, error) {
	return nil, userdomain.ErrNotFound
}

func (s *stubUserRepo) Count() (int64, error) { return int64(len(s.users)), nil }

type stubMovieRepo struct {
	movies map[uint]*moviedomain.Movie
}

func (s *stubMovieRepo) Create(movie *moviedomain.Movie) error { return nil }

func (s *stubMovieRepo) FindByID(id uint) (*moviedomain.Movie, error) {
	if m, ok := s.movies[id]; ok {
		return m, nil
	}
	return nil, moviedomain.ErrNotFound
}

func (s *stubMovieRepo) FindAll(limit, offset int) ([]moviedomain.Movie, error) { return nil, nil }

func (s *stubMovieRepo) Count() (int64, error) { return int64(len(s.movies)), nil }

type stubFavouriteRepo struct {
	edges map[string]map[uint]bool
}

func (s *stubFavouriteRepo) reset() {
	s.edges = map[string]map[uint]bool{}
}

func (s *stubFavouriteRepo) Insert(favourite *domain.Favourite) (bool, error) {
	byUser, ok := s.edges[favourite.Username]
	if !ok {
		byUser = map[uint]bool{}
		s.edges[favourite.Username] = byUser
	}
	if byUser[favourite.MovieID] {
		return false, nil
	}
	byUser[favourite.MovieID] = true
	return true, nil
}

func (s *stubFavouriteRepo) FindByUsername(username string) ([]domain.Favourite, error) {
	var out []domain.Favourite
	for movieID := range s.edges[username] {
		out = append(out, domain.Favourite{Username: username, MovieID: movieID})
	}
	return out, nil
}

func (s *stubFavouriteRepo) Count() (int64, error) {
	var count int64
	for _, byUser := range s.edges {
		count += int64(len(byUser))
	}
	return count, nil
}

type stubPublisher struct {
	events []kafka.FavouriteAddedEvent
}

func (s *stubPublisher) reset() { s.events = nil }

func (s *stubPublisher) PublishFavouriteAdded(ctx context.Context, event kafka.FavouriteAddedEvent) error {
	s.events = append(s.events, event)
	return nil
}

// Prometheus collectors register globally, so the handler is built once and
// the fakes are reset between tests.
var (
	setupOnce  sync.Once
	testRouter *mux.Router
	testTokens *auth.Manager
	favourites = &stubFavouriteRepo{edges: map[string]map[uint]bool{}}
	published  = &stubPublisher{}
)

func setup() (*mux.Router, *auth.Manager) {
	setupOnce.Do(func() {
		users := &stubUserRepo{users: map[string]*userdomain.User{
			"alice": {ID: 1, Username: "alice"},
		}}
		movies := &stubMovieRepo{movies: map[uint]*moviedomain.Movie{
			42: {ID: 42, Title: "Heat"},
		}}

		testTokens = auth.NewManager("test-secret", time.Hour)

		handler := NewFavouriteHandler(
			command.NewAddFavouriteHandler(favourites, users, movies),
			query.NewListFavouritesHandler(favourites),
			testTokens,
			published,
		)

		testRouter = mux.NewRouter()
		handler.RegisterRoutes(testRouter)
	})

	favourites.reset()
	published.reset()
	return testRouter, testTokens
}

func doRequest(t *testing.T, router *mux.Router, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAddFavourite_HTTP(t *testing.T) {
	router, tokens := setup()

	token, err := tokens.Issue(1, "alice", "user")
	require.NoError(t, err)

	t.Run("created", func(t *testing.T) {
		favourites.reset()
		published.reset()

		rr := doRequest(t, router, http.MethodPost, "/favourites", token, `{"movie_id": 42}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		require.Len(t, published.events, 1)
		assert.Equal(t, "alice", published.events[0].Username)
		assert.Equal(t, uint(42), published.events[0].MovieID)
	})

	t.Run("duplicate succeeds without second event", func(t *testing.T) {
		favourites.reset()
		published.reset()

		rr := doRequest(t, router, http.MethodPost, "/favourites", token, `{"movie_id": 42}`)
		assert.Equal(t, http.StatusCreated, rr.Code)

		rr = doRequest(t, router, http.MethodPost, "/favourites", token, `{"movie_id": 42}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, published.events, 1)
	})

	t.Run("unknown movie", func(t *testing.T) {
		favourites.reset()
		published.reset()

		rr := doRequest(t, router, http.MethodPost, "/favourites", token, `{"movie_id": 999}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "User or movie not found")
		assert.Empty(t, published.events)
	})

	t.Run("missing token", func(t *testing.T) {
		favourites.reset()

		rr := doRequest(t, router, http.MethodPost, "/favourites", "", `{"movie_id": 42}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		favourites.reset()

		expired := auth.NewManager("test-secret", -time.Minute)
		staleToken, err := expired.Issue(1, "alice", "user")
		require.NoError(t, err)

		rr := doRequest(t, router, http.MethodPost, "/favourites", staleToken, `{"movie_id": 42}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		favourites.reset()

		rr := doRequest(t, router, http.MethodPost, "/favourites", token, `not json`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListFavourites_HTTP(t *testing.T) {
	router, tokens := setup()

	token, err := tokens.Issue(1, "alice", "user")
	require.NoError(t, err)

	rr := doRequest(t, router, http.MethodPost, "/favourites", token, `{"movie_id": 42}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/favourites", token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)

	rr = doRequest(t, router, http.MethodGet, "/favourites", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
