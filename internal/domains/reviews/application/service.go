package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Service orchestrates review use cases.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	newID   func() string
}

type Option func(*Service)

// WithIDGenerator overrides review ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateReview stores the first review a user writes for an item.
func (s *Service) CreateReview(ctx context.Context, input types.CreateReviewInput) (*types.ReviewProjection, error) {
	if err := validateID("user", input.UserID); err != nil {
		return nil, err
	}
	if err := validateID("item", input.ItemID); err != nil {
		return nil, err
	}
	exists, err := s.catalog.ItemExists(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, input.ItemID)
	}
	if _, err := s.repo.FindByUserAndItem(ctx, input.UserID, input.ItemID); err == nil {
		return nil, mapError(ports.ErrDuplicateReview)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	review, err := domain.NewReview(s.newID(), input.UserID, input.ItemID, input.Rating, input.Comment, input.Images)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Insert(ctx, review)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateReview applies a partial update by the owner or an admin.
func (s *Service) UpdateReview(ctx context.Context, input types.UpdateReviewInput) (*types.ReviewProjection, error) {
	current, err := s.authorized(ctx, input.ID, input.Actor)
	if err != nil {
		return nil, err
	}
	review := current.Entity.Clone()
	if input.Rating != nil {
		if err := review.Rate(*input.Rating); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Comment != nil {
		if err := review.SetComment(*input.Comment); err != nil {
			return nil, mapError(err)
		}
	}
	switch action := types.ImageAction(strings.ToLower(string(input.ImageAction))); action {
	case types.ImageActionReplace:
		if err := review.ReplaceImages(input.Images); err != nil {
			return nil, mapError(err)
		}
	case "", types.ImageActionAppend, "add":
		review.RemoveImages(input.ImagesToDelete)
		if err := review.AppendImages(input.Images); err != nil {
			return nil, mapError(err)
		}
	default:
		return nil, invalid("unknown image action %q", input.ImageAction)
	}
	saved, err := s.repo.Update(ctx, review)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) DeleteReview(ctx context.Context, id string, actor types.Actor) error {
	if _, err := s.authorized(ctx, id, actor); err != nil {
		return err
	}
	return mapError(s.repo.Delete(ctx, id))
}

// ListForItem pages through an item's reviews. Stats cover all of the
// item's reviews, not only those matching the filters.
func (s *Service) ListForItem(ctx context.Context, input types.ListReviewsInput) (*types.ReviewPage, error) {
	if err := validateID("item", input.ItemID); err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	req := pagination.Clamp(input.Page, limit, DefaultPageLimit, MaxPageLimit)
	query := types.ReviewQuery{
		ItemID:    input.ItemID,
		HasImages: input.HasImages,
		Sort:      parseSort(input.Sort),
		Offset:    req.Offset(),
		Limit:     req.Limit,
	}
	if input.Rating >= domain.MinRating && input.Rating <= domain.MaxRating {
		query.Rating = input.Rating
	}
	reviews, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	return &types.ReviewPage{
		Reviews:    reviews,
		Pagination: pagination.NewInfo(req, total),
		Stats:      normalizeStats(stats),
	}, nil
}

func (s *Service) authorized(ctx context.Context, id string, actor types.Actor) (*types.ReviewProjection, error) {
	if err := validateID("review", id); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if !actor.IsAdmin && !current.Entity.OwnedBy(actor.UserID) {
		return nil, ErrForbidden
	}
	return current, nil
}

func parseSort(raw string) types.SortOrder {
	switch order := types.SortOrder(strings.ToLower(strings.TrimSpace(raw))); order {
	case types.SortNewest, types.SortOldest, types.SortHighest, types.SortLowest:
		return order
	}
	return types.SortNewest
}

// normalizeStats rounds the average to one decimal and fills every star bucket.
func normalizeStats(in *types.Stats) types.Stats {
	out := types.Stats{RatingDistribution: make(map[int]int64, domain.MaxRating)}
	for r := domain.MinRating; r <= domain.MaxRating; r++ {
		out.RatingDistribution[r] = 0
	}
	if in == nil {
		return out
	}
	out.TotalReviews = in.TotalReviews
	out.AverageRating = math.Round(in.AverageRating*10) / 10
	for r, n := range in.RatingDistribution {
		out.RatingDistribution[r] = n
	}
	return out
}

func validateID(kind, id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return invalid("malformed %s id %q", kind, id)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
