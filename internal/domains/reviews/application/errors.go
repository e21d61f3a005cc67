package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
)

var (
	// ErrInvalidInput signals the request violated a review invariant.
	ErrInvalidInput = errors.New("invalid review input")
	ErrNotFound     = errors.New("review not found")
	// ErrConflict signals a second review of the same item by the same user.
	ErrConflict  = errors.New("review conflict")
	ErrForbidden = errors.New("review belongs to another user")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidRating) ||
		errors.Is(err, domain.ErrCommentTooLong) ||
		errors.Is(err, domain.ErrTooManyImages) ||
		errors.Is(err, domain.ErrEmptyImageURL) ||
		errors.Is(err, domain.ErrMissingAuthor) ||
		errors.Is(err, domain.ErrMissingItem) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateReview) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
