package types

import (
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

// OrderProjection carries an order plus its persistence timestamps.
type OrderProjection = projection.Projection[*domain.Order]

// CloneProjection deep-copies a projection.
func CloneProjection(src *OrderProjection) *OrderProjection {
	if src == nil {
		return nil
	}
	return &OrderProjection{Entity: src.Entity.Clone(), Metadata: src.Metadata}
}
