// Package catalog adapts the catalog repository to the reviews Catalog port.
package catalog

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

type Catalog struct {
	repo catalogports.Repository
}

func New(repo catalogports.Repository) *Catalog {
	return &Catalog{repo: repo}
}

func (c *Catalog) ItemExists(ctx context.Context, id string) (bool, error) {
	_, err := c.repo.GetByID(ctx, id)
	if errors.Is(err, catalogports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
