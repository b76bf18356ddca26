package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/movie-catalog/internal/favourite/domain"
	moviedomain "github.com/tair/movie-catalog/internal/movie/domain"
	userdomain "github.com/tair/movie-catalog/internal/user/domain"
)

type fakeUserRepo struct {
	users map[string]*userdomain.User
}

func (f *fakeUserRepo) Create(user *userdomain.User) error { return nil }

func (f *fakeUserRepo) FindByID(id uint) (*userdomain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, userdomain.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(username string) (*userdomain.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, userdomain.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*userdomain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, userdomain.ErrNotFound
}

func (f *fakeUserRepo) Count() (int64, error) { return int64(len(f.users)), nil }

type fakeMovieRepo struct {
	movies map[uint]*moviedomain.Movie
}

func (f *fakeMovieRepo) Create(movie *moviedomain.Movie) error {
	f.movies[movie.ID] = movie
	return nil
}

func (f *fakeMovieRepo) FindByID(id uint) (*moviedomain.Movie, error) {
	if m, ok := f.movies[id]; ok {
		return m, nil
	}
	return nil, moviedomain.ErrNotFound
}

func (f *fakeMovieRepo) FindAll(limit, offset int) ([]moviedomain.Movie, error) {
	return nil, nil
}

func (f *fakeMovieRepo) Count() (int64, error) { return int64(len(f.movies)), nil }

type fakeFavouriteRepo struct {
	edges map[string]map[uint]bool
}

func newFakeFavouriteRepo() *fakeFavouriteRepo {
	return &fakeFavouriteRepo{edges: map[string]map[uint]bool{}}
}

func (f *fakeFavouriteRepo) Insert(favourite *domain.Favourite) (bool, error) {
	byUser, ok := f.edges[favourite.Username]
	if !ok {
		byUser = map[uint]bool{}
		f.edges[favourite.Username] = byUser
	}
	if byUser[favourite.MovieID] {
		return false, nil
	}
	byUser[favourite.MovieID] = true
	return true, nil
}

func (f *fakeFavouriteRepo) FindByUsername(username string) ([]domain.Favourite, error) {
	var out []domain.Favourite
	for movieID := range f.edges[username] {
		out = append(out, domain.Favourite{Username: username, MovieID: movieID})
	}
	return out, nil
}

func (f *fakeFavouriteRepo) Count() (int64, error) {
	var count int64
	for _, byUser := range f.edges {
		count += int64(len(byUser))
	}
	return count, nil
}

func newHandler() (*AddFavouriteHandler, *fakeFavouriteRepo) {
	users := &fakeUserRepo{users: map[string]*userdomain.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com"},
		"bob":   {ID: 2, Username: "bob", Email: "bob@example.com"},
	}}
	movies := &fakeMovieRepo{movies: map[uint]*moviedomain.Movie{
		42: {ID: 42, Title: "Heat"},
	}}
	favourites := newFakeFavouriteRepo()
	return NewAddFavouriteHandler(favourites, users, movies), favourites
}

func TestAddFavourite_Success(t *testing.T) {
	handler, _ := newHandler()

	favourite, created, err := handler.Handle(AddFavouriteCommand{Username: "alice", MovieID: 42})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "alice", favourite.Username)
	assert.Equal(t, uint(42), favourite.MovieID)
}

func TestAddFavourite_DuplicateIsIdempotent(t *testing.T) {
	handler, repo := newHandler()

	_, created, err := handler.Handle(AddFavouriteCommand{Username: "alice", MovieID: 42})
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = handler.Handle(AddFavouriteCommand{Username: "alice", MovieID: 42})
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddFavourite_UnknownUser(t *testing.T) {
	handler, repo := newHandler()

	_, _, err := handler.Handle(AddFavouriteCommand{Username: "mallory", MovieID: 42})

	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	count, _ := repo.Count()
	assert.Equal(t, int64(0), count)
}

func TestAddFavourite_UnknownMovie(t *testing.T) {
	handler, repo := newHandler()

	_, _, err := handler.Handle(AddFavouriteCommand{Username: "alice", MovieID: 999})

	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	count, _ := repo.Count()
	assert.Equal(t, int64(0), count)
}

func TestAddFavourite_BothReferencesMissing(t *testing.T) {
	handler, repo := newHandler()

	_, _, err := handler.Handle(AddFavouriteCommand{Username: "mallory", MovieID: 999})

	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	count, _ := repo.Count()
	assert.Equal(t, int64(0), count)
}

func TestAddFavourite_Validation(t *testing.T) {
	handler, _ := newHandler()

	tests := []struct {
		name string
		cmd  AddFavouriteCommand
	}{
		{"empty username", AddFavouriteCommand{MovieID: 42}},
		{"zero movie id", AddFavouriteCommand{Username: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := handler.Handle(tt.cmd)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrReferenceNotFound)
		})
	}
}

func TestAddFavourite_DifferentUsersSameMovie(t *testing.T) {
	handler, repo := newHandler()

	_, created, err := handler.Handle(AddFavouriteCommand{Username: "alice", MovieID: 42})
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = handler.Handle(AddFavouriteCommand{Username: "bob", MovieID: 42})
	require.NoError(t, err)
	assert.True(t, created)

	count, _ := repo.Count()
	assert.Equal(t, int64(2), count)
}
