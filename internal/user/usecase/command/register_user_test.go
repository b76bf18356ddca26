package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/movie-catalog/internal/user/domain"
	"github.com/tair/movie-catalog/pkg/auth"
)

// fakeUserRepo is an in-memory UserRepository for handler tests
type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(user *domain.User) error {
	if _, ok := f.users[user.Username]; ok {
		return domain.ErrAlreadyExists
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(username string) (*domain.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Count() (int64, error) {
	return int64(len(f.users)), nil
}

func TestRegisterUser(t *testing.T) {
	repo := newFakeUserRepo()
	handler := NewRegisterUserHandler(repo)

	user, err := handler.Handle(RegisterUserCommand{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.Password, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(user.Password, "hunter22"))
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	handler := NewRegisterUserHandler(repo)

	_, err := handler.Handle(RegisterUserCommand{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = handler.Handle(RegisterUserCommand{
		Username: "alice",
		Email:    "other@example.com",
		Password: "hunter22",
	})
	assert.EqualError(t, err, "username or email already exists")
}

func TestRegisterUserValidation(t *testing.T) {
	handler := NewRegisterUserHandler(newFakeUserRepo())

	cases := []struct {
		name string
		cmd  RegisterUserCommand
	}{
		{"missing username", RegisterUserCommand{Email: "a@b.c", Password: "hunter22"}},
		{"missing email", RegisterUserCommand{Username: "alice", Password: "hunter22"}},
		{"missing password", RegisterUserCommand{Username: "alice", Email: "a@b.c"}},
		{"short password", RegisterUserCommand{Username: "alice", Email: "a@b.c", Password: "abc"}},
		{"invalid role", RegisterUserCommand{Username: "alice", Email: "a@b.c", Password: "hunter22", Role: "root"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(tc.cmd)
			assert.Error(t, err)
		})
	}
}

func TestLoginUser(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := auth.NewManager("login-test-secret", time.Hour)

	_, err := NewRegisterUserHandler(repo).Handle(RegisterUserCommand{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	handler := NewLoginUserHandler(repo, tokens)

	resp, err := handler.Handle(LoginUserCommand{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginUserInvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := auth.NewManager("login-test-secret", time.Hour)

	_, err := NewRegisterUserHandler(repo).Handle(RegisterUserCommand{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	handler := NewLoginUserHandler(repo, tokens)

	_, err = handler.Handle(LoginUserCommand{Username: "alice", Password: "wrong"})
	assert.EqualError(t, err, "invalid credentials")

	_, err = handler.Handle(LoginUserCommand{Username: "nobody", Password: "hunter22"})
	assert.EqualError(t, err, "invalid credentials")
}
