package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

var issuedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newIssuer(t *testing.T) *JWTIssuer {
	t.Helper()
	issuer, err := NewJWTIssuer(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "poster-parlor",
	})
	require.NoError(t, err)
	issuer.WithClock(func() time.Time { return issuedAt.Add(30 * time.Second) })
	return issuer
}

func testUser() *domain.User {
	return &domain.User{ID: "9d1f6a52-2f4e-4a59-9b39-3c3f1c1e8a10", Email: "a@b.c", Name: "A", Role: domain.RoleAdmin, IsActive: true}
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := newIssuer(t)
	pair, err := issuer.Issue(testUser(), issuedAt)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Minute), pair.AccessExpiresAt)
	assert.Equal(t, issuedAt.Add(time.Hour), pair.RefreshExpiresAt)

	access, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testUser().ID, access.Subject)
	assert.Equal(t, "a@b.c", access.Email)
	assert.Equal(t, domain.RoleAdmin, access.Role)

	refresh, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, testUser().ID, refresh.Subject)

	parsed, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Method.Alg())
}

func TestJWTIssuer_RejectsSwappedKinds(t *testing.T) {
	issuer := newIssuer(t)
	pair, err := issuer.Issue(testUser(), issuedAt)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	require.ErrorIs(t, err, ports.ErrInvalidToken)
	_, err = issuer.ParseRefresh(pair.AccessToken)
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestJWTIssuer_RejectsExpiredAndTampered(t *testing.T) {
	issuer := newIssuer(t)
	pair, err := issuer.Issue(testUser(), issuedAt)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.AccessToken + "x")
	require.ErrorIs(t, err, ports.ErrInvalidToken)

	issuer.WithClock(func() time.Time { return issuedAt.Add(2 * time.Minute) })
	_, err = issuer.ParseAccess(pair.AccessToken)
	require.ErrorIs(t, err, ports.ErrInvalidToken)
	_, err = issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
}

func TestJWTIssuer_RequiresSecrets(t *testing.T) {
	_, err := NewJWTIssuer(Config{AccessSecret: "a"})
	require.Error(t, err)

	issuer, err := NewJWTIssuer(Config{AccessSecret: "a", RefreshSecret: "b"})
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessTTL, issuer.cfg.AccessTTL)
	assert.Equal(t, DefaultRefreshTTL, issuer.cfg.RefreshTTL)
}
