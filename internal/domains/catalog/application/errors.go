package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrConflict signals a uniqueness violation.
	ErrConflict = errors.New("catalog conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrNoImages) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateTitle) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
