package ports

import (
	"context"
	"errors"
)

// ErrCustomerNotFound is returned when an authenticated user no longer exists.
var ErrCustomerNotFound = errors.New("user not found")

// CustomerRecord is the account data used to fill the order customer snapshot.
type CustomerRecord struct {
	ID    string
	Name  string
	Email string
}

// CustomerDirectory resolves authenticated users.
type CustomerDirectory interface {
	FindByID(ctx context.Context, id string) (*CustomerRecord, error)
}
