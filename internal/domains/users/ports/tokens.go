package ports

import (
	"errors"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies access and refresh tokens.
type TokenIssuer interface {
	Issue(user *domain.User, now time.Time) (types.TokenPair, error)
	ParseAccess(token string) (*types.Claims, error)
	ParseRefresh(token string) (*types.Claims, error)
}
