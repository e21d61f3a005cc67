package types

import (
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/domain"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

// ReviewProjection carries a review plus its persistence timestamps.
type ReviewProjection = projection.Projection[*domain.Review]

// CloneProjection deep-copies a projection.
func CloneProjection(src *ReviewProjection) *ReviewProjection {
	if src == nil {
		return nil
	}
	return &ReviewProjection{Entity: src.Entity.Clone(), Metadata: src.Metadata}
}

// Actor is the authenticated caller performing a mutation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type CreateReviewInput struct {
	UserID  string
	ItemID  string
	Rating  int
	Comment string
	Images  []string
}

// ImageAction selects how new images combine with the stored ones.
type ImageAction string

const (
	ImageActionAppend  ImageAction = "append"
	ImageActionReplace ImageAction = "replace"
)

// UpdateReviewInput is a partial update; nil fields are left unchanged.
type UpdateReviewInput struct {
	ID             string
	Actor          Actor
	Rating         *int
	Comment        *string
	Images         []string
	ImagesToDelete []string
	ImageAction    ImageAction
}

// SortOrder enumerates review listing orders.
type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

// ListReviewsInput is the public listing request for one item.
type ListReviewsInput struct {
	ItemID    string
	Page      int
	Limit     int
	Sort      string
	Rating    int
	HasImages bool
}

// ReviewQuery is the repository-level listing request.
type ReviewQuery struct {
	ItemID    string
	Rating    int
	HasImages bool
	Sort      SortOrder
	Offset    int
	Limit     int
}

// Stats summarizes every review of an item regardless of listing filters.
type Stats struct {
	AverageRating      float64
	TotalReviews       int64
	RatingDistribution map[int]int64
}

// ReviewPage is one page of reviews with item-wide stats.
type ReviewPage struct {
	Reviews    []*ReviewProjection
	Pagination pagination.Info
	Stats      Stats
}
