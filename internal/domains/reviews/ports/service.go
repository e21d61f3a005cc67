package ports

import (
	"context"

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
)

// Service exposes review use cases to adapters.
type Service interface {
	CreateReview(ctx context.Context, input types.CreateReviewInput) (*types.ReviewProjection, error)
	UpdateReview(ctx context.Context, input types.UpdateReviewInput) (*types.ReviewProjection, error)
	DeleteReview(ctx context.Context, id string, actor types.Actor) error
	ListForItem(ctx context.Context, input types.ListReviewsInput) (*types.ReviewPage, error)
}
