package ports

import (
	"context"
	"errors"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
)

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = errors.New("order not found")

// Repository persists orders.
type Repository interface {
	// Insert stores a new order and assigns its timestamps.
	Insert(ctx context.Context, order *domain.Order) (*types.OrderProjection, error)
	GetByID(ctx context.Context, id string) (*types.OrderProjection, error)
	// ListByCustomer returns the customer's orders newest first plus the total count.
	ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*types.OrderProjection, int64, error)
	List(ctx context.Context, query types.OrderQuery) ([]*types.OrderProjection, int64, error)
	Update(ctx context.Context, order *domain.Order) (*types.OrderProjection, error)
	Delete(ctx context.Context, id string) error
	// Recent returns the newest orders across all customers.
	Recent(ctx context.Context, limit int) ([]*types.OrderProjection, error)
}
