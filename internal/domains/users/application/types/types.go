package types

import (
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// TokenPair is the signed access and refresh token issued on login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// Claims are the verified contents of a token.
type Claims struct {
	Subject   string
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   domain.Role
}

func (p Principal) IsAdmin() bool { return p.Role == domain.RoleAdmin }
