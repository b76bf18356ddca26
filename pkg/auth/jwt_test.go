package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(7, "alice", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifyStripsBearerPrefix(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(1, "alice", "user")
	require.NoError(t, err)

	claims, err := m.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestVerifyDeniesEmptyToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = m.Verify("Bearer ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyDeniesMalformedToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyDeniesWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(1, "alice", "user")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyDeniesExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(1, "alice", "user")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
