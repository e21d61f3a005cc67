package ports

import (
	"context"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	AddItem(ctx context.Context, input types.CreateItemInput) (*types.ItemProjection, error)
	GetItem(ctx context.Context, id string) (*types.ItemProjection, error)
	ListItems(ctx context.Context, input types.ListItemsInput) (*types.ItemPage, error)
	SearchItems(ctx context.Context, term string, limit int) ([]*types.ItemProjection, error)
	UpdateItem(ctx context.Context, input types.UpdateItemInput) (*types.ItemProjection, error)
	FilterOptions(ctx context.Context) (*types.Facets, error)
	FeaturedItems(ctx context.Context, limit int) ([]*types.ItemProjection, error)
	DeactivateItem(ctx context.Context, id string) error
	DeleteItem(ctx context.Context, id string) error
}
