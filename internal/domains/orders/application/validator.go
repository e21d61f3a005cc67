package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

// OrderValidator checks requested items against the catalog. It never writes.
type OrderValidator struct {
	catalog ports.Catalog
}

func NewOrderValidator(catalog ports.Catalog) *OrderValidator {
	return &OrderValidator{catalog: catalog}
}

// Validate fails on the first missing item, short stock, or tampered price and
// otherwise returns the items at catalog prices with their subtotal.
func (v *OrderValidator) Validate(ctx context.Context, items []types.LineItemInput) (*types.ValidatedItems, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrNoItems)
	}
	for _, item := range items {
		if err := validateID(item.ItemID); err != nil {
			return nil, invalid("invalid catalog item id %q", item.ItemID)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidQuantity)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrNegativePrice)
		}
	}
	if v == nil || v.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not configured", ErrInternal)
	}

	result := &types.ValidatedItems{Items: make([]domain.LineItem, 0, len(items))}
	for _, item := range items {
		current, err := v.catalog.FindByID(ctx, item.ItemID)
		if err != nil {
			if errors.Is(err, ports.ErrItemNotFound) {
				return nil, fmt.Errorf("%w: catalog item %s", ErrNotFound, item.ItemID)
			}
			return nil, mapError(err)
		}
		if item.Quantity > current.Stock {
			return nil, fmt.Errorf("%w: %q has %d available, %d requested",
				ErrInsufficientStock, current.Title, current.Stock, item.Quantity)
		}
		if !domain.AmountsMatch(item.Price, current.Price) {
			return nil, fmt.Errorf("%w: %q costs %.2f, received %.2f",
				ErrPriceMismatch, current.Title, current.Price, item.Price)
		}
		line := domain.LineItem{ItemID: item.ItemID, Quantity: item.Quantity, UnitPrice: current.Price}
		result.Items = append(result.Items, line)
		result.Subtotal += line.Total()
	}
	return result, nil
}
