package types

import "github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"

// LineItemInput is a requested item with the price the client saw.
type LineItemInput struct {
	ItemID   string
	Quantity int
	Price    float64
}

// CustomerInput is the buyer contact submitted with the order.
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// PaymentInput is the payment snapshot submitted with the order.
type PaymentInput struct {
	Method        string
	TransactionID string
	Amount        float64
	Currency      string
}

// Settlement identifies a gateway payment whose signature was verified.
type Settlement struct {
	GatewayOrderID string
	PaymentID      string
}

// PlaceOrderInput is the order placement command.
type PlaceOrderInput struct {
	// IdempotencyKey makes retries return the first result.
	IdempotencyKey  string
	UserID          string
	Customer        *CustomerInput
	Items           []LineItemInput
	ShippingAddress domain.ShippingAddress
	Payment         PaymentInput
	// ShippingCost, TaxAmount and TotalPrice are client-computed values checked
	// against the server pricing when present.
	ShippingCost *float64
	TaxAmount    *float64
	TotalPrice   *float64
	Notes        string
	// Settlement is set only after the gateway signature has been verified.
	Settlement *Settlement
}

// ValidatedItems is the validator output with catalog prices substituted.
type ValidatedItems struct {
	Items    []domain.LineItem
	Subtotal float64
}

// InitiatePaymentInput asks the gateway for an order covering the checkout total.
type InitiatePaymentInput struct {
	UserID          string
	Items           []LineItemInput
	ShippingAddress domain.ShippingAddress
	ShippingCost    float64
	TaxAmount       float64
	TotalPrice      float64
}

// PaymentIntent is what the storefront needs to open the gateway checkout.
type PaymentIntent struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
	Receipt  string
}

// VerifyPaymentInput carries the gateway callback plus the checkout it paid for.
type VerifyPaymentInput struct {
	UserID          string
	GatewayOrderID  string
	PaymentID       string
	Signature       string
	Customer        *CustomerInput
	Items           []LineItemInput
	ShippingAddress domain.ShippingAddress
	ShippingCost    float64
	TaxAmount       float64
	TotalPrice      float64
	Notes           string
}

// UpdateStatusInput is the admin status change command.
type UpdateStatusInput struct {
	ID             string
	Status         string
	TrackingNumber string
}

// CancelOrderInput is the admin cancellation command.
type CancelOrderInput struct {
	ID     string
	Reason string
}
