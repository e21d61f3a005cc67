package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput covers malformed identifiers and values.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrNotFound covers missing orders, catalog items, and users.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock signals a quantity above the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrPriceMismatch signals a client price or total that differs from the catalog.
	ErrPriceMismatch = errors.New("price mismatch")
	// ErrPaymentAmountMismatch signals a payment amount that differs from the order total.
	ErrPaymentAmountMismatch = errors.New("payment amount mismatch")
	// ErrPaymentVerificationFailed signals a gateway signature that did not verify.
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	// ErrConflict signals an idempotency key reused with a different request.
	ErrConflict = errors.New("order conflict")
	// ErrInternal covers store and gateway failures.
	ErrInternal = errors.New("internal order error")
)

var taxonomy = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrInsufficientStock,
	ErrPriceMismatch,
	ErrPaymentAmountMismatch,
	ErrPaymentVerificationFailed,
	ErrConflict,
	ErrInternal,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range taxonomy {
		if errors.Is(err, known) {
			return err
		}
	}
	switch {
	case errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrIncompleteAddress):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrNotFound),
		errors.Is(err, ports.ErrItemNotFound),
		errors.Is(err, ports.ErrCustomerNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

var codes = map[error]string{
	ErrInvalidInput:              "InvalidInput",
	ErrNotFound:                  "NotFound",
	ErrInsufficientStock:         "InsufficientStock",
	ErrPriceMismatch:             "PriceMismatch",
	ErrPaymentAmountMismatch:     "PaymentAmountMismatch",
	ErrPaymentVerificationFailed: "PaymentVerificationFailed",
	ErrConflict:                  "Conflict",
	ErrInternal:                  "Internal",
}

// ErrorCode names the taxonomy entry err belongs to, or "Internal".
func ErrorCode(err error) string {
	for _, known := range taxonomy {
		if errors.Is(err, known) {
			return codes[known]
		}
	}
	return codes[ErrInternal]
}

// ErrorFromCode rebuilds a taxonomy error from its code and message, for
// errors that crossed a serialization boundary.
func ErrorFromCode(code, message string) error {
	for known, name := range codes {
		if name == code {
			return fmt.Errorf("%w: %s", known, message)
		}
	}
	return fmt.Errorf("%w: %s", ErrInternal, message)
}
