package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	user, err := CreateUser("Alice Doe", "alice@example.com", "secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.Equal(t, ROLE_USER, user.Role)
	assert.True(t, user.IsActive())
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("Al", "alice@example.com", "secret123")
	assert.Error(t, err, "name below minimum length")

	_, err = CreateUser("Alice", "not-an-email", "secret123")
	assert.Error(t, err)
}

func TestIssueAndRevokeAuthToken(t *testing.T) {
	user := &User{ID: 1}

	token, err := user.IssueAuthToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, HashAuthToken(token), user.AuthTokenHash)
	assert.NotNil(t, user.AuthTokenIssued)

	user.RevokeAuthToken()
	assert.Empty(t, user.AuthTokenHash)
	assert.Nil(t, user.AuthTokenIssued)
}

func TestLoginThrottle(t *testing.T) {
	user := &User{ID: 1}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.True(t, user.CanAttemptLogin(now))
		user.RegisterFailedLogin(now)
	}

	assert.False(t, user.CanAttemptLogin(now), "blocked after five failures")
	assert.False(t, user.CanAttemptLogin(now.Add(10*time.Minute)), "still blocked inside the window")
	assert.True(t, user.CanAttemptLogin(now.Add(16*time.Minute)), "window elapsed")

	// A failure after the window restarts the count instead of stacking.
	later := now.Add(20 * time.Minute)
	user.RegisterFailedLogin(later)
	assert.Equal(t, 1, user.LoginAttempts)

	user.RegisterSuccessfulLogin(later)
	assert.Equal(t, 0, user.LoginAttempts)
	assert.Nil(t, user.LastLoginAttempt)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, later, *user.LastLoginAt)
}

func TestAddOrgPoints(t *testing.T) {
	user := &User{OrgPoints: 5}
	user.AddOrgPoints(10)
	assert.Equal(t, 15, user.OrgPoints)

	user.AddOrgPoints(-3)
	assert.Equal(t, 15, user.OrgPoints, "negative awards are ignored")
}
