// Package catalog adapts the catalog repository to the orders Catalog port.
package catalog

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog reads prices and adjusts stock through the catalog repository.
type Catalog struct {
	repo catalogports.Repository
}

func New(repo catalogports.Repository) *Catalog {
	return &Catalog{repo: repo}
}

func (c *Catalog) FindByID(ctx context.Context, id string) (*ports.CatalogItem, error) {
	item, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return &ports.CatalogItem{
		ID:    item.Entity.ID,
		Title: item.Entity.Title,
		Price: item.Entity.Price,
		Stock: item.Entity.Stock,
	}, nil
}

func (c *Catalog) DecrementStock(ctx context.Context, id string, qty int) error {
	return translate(c.repo.AdjustStock(ctx, id, -qty))
}

func (c *Catalog) RestoreStock(ctx context.Context, id string, qty int) error {
	return translate(c.repo.AdjustStock(ctx, id, qty))
}

func translate(err error) error {
	if errors.Is(err, catalogports.ErrNotFound) {
		return ports.ErrItemNotFound
	}
	return err
}
