package ports

import (
	"context"
	"errors"

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/domain"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrDuplicateReview = errors.New("user already reviewed this item")
)

// Repository persists reviews.
type Repository interface {
	// Insert fails with ErrDuplicateReview when the user already reviewed the item.
	Insert(ctx context.Context, review *domain.Review) (*types.ReviewProjection, error)
	Update(ctx context.Context, review *domain.Review) (*types.ReviewProjection, error)
	GetByID(ctx context.Context, id string) (*types.ReviewProjection, error)
	FindByUserAndItem(ctx context.Context, userID, itemID string) (*types.ReviewProjection, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query types.ReviewQuery) ([]*types.ReviewProjection, int64, error)
	Stats(ctx context.Context, itemID string) (*types.Stats, error)
}
