// Package customers adapts the users repository to the orders CustomerDirectory port.
package customers

import (
	"context"
	"errors"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	userports "github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

var _ ports.CustomerDirectory = (*Directory)(nil)

// Directory resolves order customers from registered accounts.
type Directory struct {
	users userports.Repository
}

func New(users userports.Repository) *Directory {
	return &Directory{users: users}
}

func (d *Directory) FindByID(ctx context.Context, id string) (*ports.CustomerRecord, error) {
	user, err := d.users.GetByID(ctx, id)
	if errors.Is(err, userports.ErrNotFound) {
		return nil, ports.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ports.CustomerRecord{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}
