package mapper

import (
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	userdomain "github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
)

// Register is the inbound sign-up payload.
type Register struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type Login struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Refresh carries the refresh token when it is not sent as a cookie.
type Refresh struct {
	RefreshToken string `json:"refreshToken"`
}

// User is the public view of an account. The password hash never leaves the service.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Tokens is the refresh response. The refresh token travels in a cookie.
type Tokens struct {
	AccessToken     string    `json:"accessToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

func ToRegisterInput(req Register) types.RegisterInput {
	return types.RegisterInput{Email: req.Email, Name: req.Name, Password: req.Password}
}

func ToLoginInput(req Login) types.LoginInput {
	return types.LoginInput{Email: req.Email, Password: req.Password}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
	}
}

func FromAuthResult(result *types.AuthResult) AuthResponse {
	if result == nil {
		return AuthResponse{}
	}
	return AuthResponse{AccessToken: result.Tokens.AccessToken, User: FromDomainUser(result.User)}
}

func FromTokenPair(pair *types.TokenPair) Tokens {
	if pair == nil {
		return Tokens{}
	}
	return Tokens{
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
	}
}
