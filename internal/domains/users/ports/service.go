package ports

import (
	"context"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
)

// Service exposes account and authentication use cases to adapters.
type Service interface {
	Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error)
	Login(ctx context.Context, input types.LoginInput) (*types.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*types.TokenPair, error)
	// Authenticate resolves an access token to the current principal.
	Authenticate(ctx context.Context, accessToken string) (*types.Principal, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	Logout(ctx context.Context, userID string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
