package ports

import (
	"context"
	"errors"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound       = errors.New("catalog item not found")
	ErrDuplicateTitle = errors.New("catalog item title already exists")
)

// Repository persists catalog items.
type Repository interface {
	Save(ctx context.Context, item *domain.Item) (*types.ItemProjection, error)
	GetByID(ctx context.Context, id string) (*types.ItemProjection, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query types.ItemQuery) ([]*types.ItemProjection, int64, error)
	// AdjustStock adds delta to the stored stock without reading it first and
	// without a lower bound check.
	AdjustStock(ctx context.Context, id string, delta int) error
	Facets(ctx context.Context) (*types.Facets, error)
}
