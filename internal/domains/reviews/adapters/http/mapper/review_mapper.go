package mapper

import (
	"strconv"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

// CreateReview is the inbound payload for POST /api/review/:id.
type CreateReview struct {
	Rating  int      `json:"rating" binding:"required,min=1,max=5"`
	Comment string   `json:"comment" binding:"max=500"`
	Images  []string `json:"images" binding:"max=5,dive,required,url"`
}

// UpdateReview is a partial update for PUT /api/review/:id.
type UpdateReview struct {
	Rating         *int     `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comment        *string  `json:"comment,omitempty" binding:"omitempty,max=500"`
	Images         []string `json:"images,omitempty" binding:"omitempty,dive,required,url"`
	ImagesToDelete []string `json:"imagesToDelete,omitempty"`
	ImageAction    string   `json:"imageAction,omitempty" binding:"omitempty,oneof=append add replace"`
}

// ListQuery binds the public listing query string.
type ListQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Sort     string `form:"sort"`
	Rating   int    `form:"rating"`
	HasImage string `form:"hasImage"`
}

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PosterID  string    `json:"posterId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats serializes the rating distribution with string keys "1".."5".
type Stats struct {
	AverageRating      float64          `json:"averageRating"`
	TotalReviews       int64            `json:"totalReviews"`
	RatingDistribution map[string]int64 `json:"ratingDistribution"`
}

type ReviewPage struct {
	Reviews    []Review        `json:"reviews"`
	Pagination pagination.Info `json:"pagination"`
	Stats      Stats           `json:"stats"`
}

func ToCreateInput(userID, itemID string, payload CreateReview) types.CreateReviewInput {
	return types.CreateReviewInput{
		UserID:  userID,
		ItemID:  itemID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
		Images:  payload.Images,
	}
}

func ToUpdateInput(id string, actor types.Actor, payload UpdateReview) types.UpdateReviewInput {
	return types.UpdateReviewInput{
		ID:             id,
		Actor:          actor,
		Rating:         payload.Rating,
		Comment:        payload.Comment,
		Images:         payload.Images,
		ImagesToDelete: payload.ImagesToDelete,
		ImageAction:    types.ImageAction(payload.ImageAction),
	}
}

// ToListInput maps the query string; hasImage accepts any strconv boolean.
func ToListInput(itemID string, q ListQuery) types.ListReviewsInput {
	hasImages, _ := strconv.ParseBool(q.HasImage)
	return types.ListReviewsInput{
		ItemID:    itemID,
		Page:      q.Page,
		Limit:     q.Limit,
		Sort:      q.Sort,
		Rating:    q.Rating,
		HasImages: hasImages,
	}
}

func FromProjection(p *types.ReviewProjection) Review {
	if p == nil || p.Entity == nil {
		return Review{}
	}
	images := p.Entity.Images
	if images == nil {
		images = []string{}
	}
	return Review{
		ID:        p.Entity.ID,
		UserID:    p.Entity.UserID,
		PosterID:  p.Entity.ItemID,
		Rating:    p.Entity.Rating,
		Comment:   p.Entity.Comment,
		Images:    images,
		CreatedAt: p.Metadata.CreatedAt,
		UpdatedAt: p.Metadata.UpdatedAt,
	}
}

func FromPage(page *types.ReviewPage) ReviewPage {
	out := ReviewPage{Reviews: []Review{}, Stats: Stats{RatingDistribution: map[string]int64{}}}
	if page == nil {
		return out
	}
	for _, r := range page.Reviews {
		out.Reviews = append(out.Reviews, FromProjection(r))
	}
	out.Pagination = page.Pagination
	out.Stats.AverageRating = page.Stats.AverageRating
	out.Stats.TotalReviews = page.Stats.TotalReviews
	for rating, count := range page.Stats.RatingDistribution {
		out.Stats.RatingDistribution[strconv.Itoa(rating)] = count
	}
	return out
}
