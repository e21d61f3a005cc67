package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	accessType  = "access"
	refreshType = "refresh"
)

// Config holds signing secrets and lifetimes for both token kinds.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// JWTIssuer signs HS256 tokens carrying sub, email and role claims.
type JWTIssuer struct {
	cfg Config
	now func() time.Time
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

func NewJWTIssuer(cfg Config) (*JWTIssuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("jwt access and refresh secrets are required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &JWTIssuer{cfg: cfg, now: time.Now}, nil
}

// WithClock overrides the verification time source for deterministic testing.
func (i *JWTIssuer) WithClock(now func() time.Time) {
	if now != nil {
		i.now = now
	}
}

func (i *JWTIssuer) Issue(user *domain.User, now time.Time) (types.TokenPair, error) {
	if user == nil {
		return types.TokenPair{}, errors.New("user is nil")
	}
	accessExp := now.Add(i.cfg.AccessTTL)
	access, err := i.sign(user, accessType, now, accessExp, i.cfg.AccessSecret)
	if err != nil {
		return types.TokenPair{}, err
	}
	refreshExp := now.Add(i.cfg.RefreshTTL)
	refresh, err := i.sign(user, refreshType, now, refreshExp, i.cfg.RefreshSecret)
	if err != nil {
		return types.TokenPair{}, err
	}
	return types.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (i *JWTIssuer) ParseAccess(token string) (*types.Claims, error) {
	return i.parse(token, accessType, i.cfg.AccessSecret)
}

func (i *JWTIssuer) ParseRefresh(token string) (*types.Claims, error) {
	return i.parse(token, refreshType, i.cfg.RefreshSecret)
}

func (i *JWTIssuer) sign(user *domain.User, kind string, now, exp time.Time, secret string) (string, error) {
	c := claims{
		Email: user.Email,
		Role:  string(user.Role),
		Type:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.cfg.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (i *JWTIssuer) parse(token, kind, secret string) (*types.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.cfg.Issuer))
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ports.ErrInvalidToken, err)
	}
	role := domain.Role(c.Role)
	if c.Type != kind || c.Subject == "" || c.Email == "" || !role.Valid() {
		return nil, fmt.Errorf("%w: malformed %s token", ports.ErrInvalidToken, kind)
	}
	return &types.Claims{
		Subject:   c.Subject,
		Email:     c.Email,
		Role:      role,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)
