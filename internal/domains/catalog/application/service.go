package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

const (
	DefaultPageLimit   = 10
	MaxPageLimit       = 100
	DefaultSearchLimit = 20
	DefaultFeatured    = 8
)

// Service orchestrates catalog use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

// Option customizes the service.
type Option func(*Service)

// WithIDGenerator overrides item ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddItem validates and stores a new item.
func (s *Service) AddItem(ctx context.Context, input types.CreateItemInput) (*types.ItemProjection, error) {
	item, err := domain.NewItem(s.newID(), input.Title, input.Price, input.Stock, input.Images)
	if err != nil {
		return nil, mapError(err)
	}
	item.Dimensions = strings.TrimSpace(input.Dimensions)
	item.Material = strings.TrimSpace(input.Material)
	item.Category = strings.TrimSpace(input.Category)
	item.Description = strings.TrimSpace(input.Description)
	item.SetTags(input.Tags)
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetItem loads a single item.
func (s *Service) GetItem(ctx context.Context, id string) (*types.ItemProjection, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// ListItems returns one filtered, sorted page of items.
func (s *Service) ListItems(ctx context.Context, input types.ListItemsInput) (*types.ItemPage, error) {
	if input.Page < 1 || input.Limit < 1 {
		return nil, invalid("page and limit must be positive numbers")
	}
	if input.Limit > MaxPageLimit {
		return nil, invalid("limit cannot exceed 100")
	}
	if err := validateFilter(input.Filter); err != nil {
		return nil, err
	}
	req := pagination.Request{Page: input.Page, Limit: input.Limit}
	items, total, err := s.repo.List(ctx, types.ItemQuery{Filter: input.Filter, Offset: req.Offset(), Limit: req.Limit})
	if err != nil {
		return nil, mapError(err)
	}
	return &types.ItemPage{
		Items:      items,
		Pagination: pagination.NewInfo(req, total),
		Filter:     input.Filter,
	}, nil
}

// SearchItems matches the term against title, description, and tags.
func (s *Service) SearchItems(ctx context.Context, term string, limit int) ([]*types.ItemProjection, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalid("search term is required")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	items, _, err := s.repo.List(ctx, types.ItemQuery{Filter: types.ItemFilter{Search: term}, Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// UpdateItem applies a partial update.
func (s *Service) UpdateItem(ctx context.Context, input types.UpdateItemInput) (*types.ItemProjection, error) {
	if err := validateID(input.ID); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	item := existing.Entity
	if err := applyUpdate(item, input); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// FilterOptions lists categories with counts plus distinct materials and dimensions.
func (s *Service) FilterOptions(ctx context.Context) (*types.Facets, error) {
	facets, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return facets, nil
}

// FeaturedItems returns the oldest available items.
func (s *Service) FeaturedItems(ctx context.Context, limit int) ([]*types.ItemProjection, error) {
	if limit <= 0 {
		limit = DefaultFeatured
	}
	available := true
	items, _, err := s.repo.List(ctx, types.ItemQuery{
		Filter: types.ItemFilter{IsAvailable: &available, SortBy: types.SortByCreatedAt, SortOrder: types.SortAsc},
		Limit:  limit,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// DeactivateItem marks the item unavailable.
func (s *Service) DeactivateItem(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	existing.Entity.Deactivate()
	if _, err := s.repo.Save(ctx, existing.Entity); err != nil {
		return mapError(err)
	}
	return nil
}

// DeleteItem removes the item permanently.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

func applyUpdate(item *domain.Item, input types.UpdateItemInput) error {
	if input.Title != nil {
		if err := item.Rename(*input.Title); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := item.Reprice(*input.Price); err != nil {
			return err
		}
	}
	if input.Stock != nil {
		if err := item.SetStock(*input.Stock); err != nil {
			return err
		}
	}
	if input.Dimensions != nil {
		item.Dimensions = strings.TrimSpace(*input.Dimensions)
	}
	if input.Material != nil {
		item.Material = strings.TrimSpace(*input.Material)
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Tags != nil {
		item.SetTags(*input.Tags)
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	return applyImageChanges(item, input)
}

func applyImageChanges(item *domain.Item, input types.UpdateItemInput) error {
	if len(input.NewImages) == 0 && len(input.ImagesToDelete) == 0 && input.ImageAction != types.ImageActionReplace {
		return nil
	}
	images := append([]domain.Image(nil), item.Images...)
	if len(input.ImagesToDelete) > 0 {
		drop := make(map[string]struct{}, len(input.ImagesToDelete))
		for _, id := range input.ImagesToDelete {
			drop[id] = struct{}{}
		}
		kept := images[:0]
		for _, img := range images {
			if _, ok := drop[img.PublicID]; !ok {
				kept = append(kept, img)
			}
		}
		images = kept
	}
	if len(input.NewImages) > 0 {
		if input.ImageAction == types.ImageActionReplace {
			images = append([]domain.Image(nil), input.NewImages...)
		} else {
			images = append(images, input.NewImages...)
		}
	}
	return item.ReplaceImages(images)
}

func validateFilter(filter types.ItemFilter) error {
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return invalid("minimum price cannot be negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return invalid("minimum price cannot be greater than maximum price")
	}
	if filter.MinStock != nil && *filter.MinStock < 0 {
		return invalid("minimum stock cannot be negative")
	}
	if filter.MinStock != nil && filter.MaxStock != nil && *filter.MinStock > *filter.MaxStock {
		return invalid("minimum stock cannot be greater than maximum stock")
	}
	switch filter.SortBy {
	case "", types.SortByCreatedAt, types.SortByPrice, types.SortByStock, types.SortByTitle:
	default:
		return invalid("unsupported sort field " + string(filter.SortBy))
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return invalid("invalid catalog item id format")
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
