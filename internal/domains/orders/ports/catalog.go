package ports

import (
	"context"
	"errors"
)

// ErrItemNotFound is returned when a referenced catalog item does not exist.
var ErrItemNotFound = errors.New("catalog item not found")

// CatalogItem is the price and stock snapshot the orders context needs.
// Availability is not part of it: placement checks stock and price only.
type CatalogItem struct {
	ID    string
	Title string
	Price float64
	Stock int
}

// Catalog reads and adjusts catalog stock.
type Catalog interface {
	FindByID(ctx context.Context, id string) (*CatalogItem, error)
	// DecrementStock subtracts qty without checking the current stock.
	DecrementStock(ctx context.Context, id string, qty int) error
	RestoreStock(ctx context.Context, id string, qty int) error
}
