package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status enumerates the order lifecycle.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "ONLINE"
	PaymentCOD    PaymentMethod = "COD"
)

// CurrencyINR is the only supported currency.
const CurrencyINR = "INR"

var (
	ErrNoItems              = errors.New("order must have at least one item")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrNegativePrice        = errors.New("price cannot be negative")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
	ErrIncompleteAddress    = errors.New("shipping address is incomplete")
)

// LineItem is one product entry captured at order time.
type LineItem struct {
	ItemID    string
	Quantity  int
	UnitPrice float64
}

// Total is unit price times quantity.
func (l LineItem) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// ShippingAddress is the delivery destination; State drives the remote surcharge.
type ShippingAddress struct {
	AddressLine1 string
	City         string
	State        string
	Pincode      string
}

// Validate ensures every address field is present.
func (a ShippingAddress) Validate() error {
	for _, v := range []string{a.AddressLine1, a.City, a.State, a.Pincode} {
		if strings.TrimSpace(v) == "" {
			return ErrIncompleteAddress
		}
	}
	return nil
}

// PaymentDetails is the payment snapshot stored with the order.
type PaymentDetails struct {
	Method         PaymentMethod
	TransactionID  string
	Amount         float64
	Currency       string
	GatewayOrderID string
}

// Validate checks the method, currency, and amount.
func (p PaymentDetails) Validate() error {
	if !p.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, p.Method)
	}
	if p.Currency != CurrencyINR {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, p.Currency)
	}
	if p.Amount < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Valid reports whether the method belongs to the accepted set.
func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentCOD
}

// Customer is the buyer snapshot. UserID is empty for guest orders.
type Customer struct {
	UserID string
	Name   string
	Email  string
	Phone  string
}

// Order is the aggregate persisted at placement time.
type Order struct {
	ID              string
	Customer        Customer
	Items           []LineItem
	ShippingAddress ShippingAddress
	Payment         PaymentDetails
	Status          Status
	IsPaid          bool
	ShippingCost    float64
	TaxAmount       float64
	TotalPrice      float64
	TrackingNumber  string
	Notes           string
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether from may move to to. Staying put is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves the order along the lifecycle. The tracking number is
// recorded only when the new status is SHIPPED.
func (o *Order) UpdateStatus(next Status, trackingNumber string) error {
	if _, err := ParseStatus(string(next)); err != nil {
		return err
	}
	if !CanTransition(o.Status, next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	if next == StatusShipped {
		if tn := strings.TrimSpace(trackingNumber); tn != "" {
			o.TrackingNumber = tn
		}
	}
	return nil
}

// Cancel moves a pending or processing order to CANCELLED and records the reason.
func (o *Order) Cancel(reason string) error {
	if o.Status != StatusPending && o.Status != StatusProcessing {
		return fmt.Errorf("%w: cannot cancel order in %s status", ErrInvalidTransition, o.Status)
	}
	o.Status = StatusCancelled
	if reason = strings.TrimSpace(reason); reason != "" {
		o.Notes = "Cancelled: " + reason
	}
	return nil
}

// BelongsTo reports whether the order was placed by the given user.
func (o *Order) BelongsTo(userID string) bool {
	return o.Customer.UserID != "" && o.Customer.UserID == userID
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	return &clone
}
