package types

import (
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

// ItemProjection carries a catalog item plus its persistence timestamps.
type ItemProjection = projection.Projection[*domain.Item]

// CloneProjection deep-copies a projection so callers cannot mutate repository state.
func CloneProjection(src *ItemProjection) *ItemProjection {
	if src == nil {
		return nil
	}
	return &ItemProjection{Entity: src.Entity.Clone(), Metadata: src.Metadata}
}
