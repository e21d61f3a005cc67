package ports

import "context"

// GatewayOrderRequest asks the payment gateway to open an order.
type GatewayOrderRequest struct {
	// AmountMinor is in paise.
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// GatewayOrder is the gateway's view of an opened order.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// PaymentGateway creates gateway orders. Signature checks happen locally.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
	// FetchOrder loads a previously created gateway order.
	FetchOrder(ctx context.Context, id string) (*GatewayOrder, error)
	// KeyID is the public key the storefront checkout is opened with.
	KeyID() string
}
