package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	user, err := NewUser("u-1", "  Alice@Example.COM ", " Alice ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, user.CheckPassword("correct horse"))
	assert.False(t, user.CheckPassword("correct horsE"))
	assert.False(t, user.CheckPassword(""))
}

func TestNewUser_Invariants(t *testing.T) {
	cases := map[string]struct {
		email, name, password string
		want                  error
	}{
		"empty email":    {"", "A", "password1", ErrEmptyEmail},
		"no at sign":     {"alice.example.com", "A", "password1", ErrInvalidEmail},
		"trailing at":    {"alice@", "A", "password1", ErrInvalidEmail},
		"two at signs":   {"a@b@c", "A", "password1", ErrInvalidEmail},
		"empty name":     {"a@b.c", " ", "password1", ErrEmptyName},
		"blank password": {"a@b.c", "A", "   ", ErrEmptyPassword},
		"short password": {"a@b.c", "A", "short", ErrWeakPassword},
		"too long":       {"a@b.c", "A", strings.Repeat("x", 73), ErrPasswordTooLong},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewUser("id", tc.email, tc.name, tc.password)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUser_RoleAndValidate(t *testing.T) {
	user, err := NewUser("u-1", "a@b.c", "A", "password1")
	require.NoError(t, err)

	require.ErrorIs(t, user.SetRole("ROOT"), ErrInvalidRole)
	require.NoError(t, user.SetRole(RoleAdmin))
	assert.True(t, user.IsAdmin())

	user.PasswordHash = ""
	require.ErrorIs(t, user.Validate(), ErrMissingPassword)
}

func TestUser_CloneCopiesLastLogin(t *testing.T) {
	user, err := NewUser("u-1", "a@b.c", "A", "password1")
	require.NoError(t, err)
	user.RecordLogin(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	clone := user.Clone()
	clone.LastLogin = nil
	clone.Deactivate()

	require.NotNil(t, user.LastLogin)
	assert.True(t, user.IsActive)
}
