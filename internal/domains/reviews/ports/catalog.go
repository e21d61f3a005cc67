package ports

import "context"

// Catalog confirms that a reviewed item exists.
type Catalog interface {
	ItemExists(ctx context.Context, id string) (bool, error)
}
