package ports

import (
	"context"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
)

// Service exposes customer-facing order use cases.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error)
	// GetOrder hides orders owned by someone else when userID is set.
	GetOrder(ctx context.Context, id, userID string) (*types.OrderProjection, error)
	ListCustomerOrders(ctx context.Context, input types.CustomerOrdersInput) (*types.OrderPage, error)
	PaymentKeyID() string
	InitiatePayment(ctx context.Context, input types.InitiatePaymentInput) (*types.PaymentIntent, error)
	// ReconcilePayment verifies the gateway signature and returns the settled placement command.
	ReconcilePayment(ctx context.Context, input types.VerifyPaymentInput) (*types.PlaceOrderInput, error)
}

// AdminService exposes back-office order operations.
type AdminService interface {
	ListOrders(ctx context.Context, input types.AdminListInput) (*types.OrderPage, error)
	GetOrder(ctx context.Context, id string) (*types.OrderProjection, error)
	UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderProjection, error)
	CancelOrder(ctx context.Context, input types.CancelOrderInput) (*types.OrderProjection, error)
	DeleteOrder(ctx context.Context, id string) error
	RecentOrders(ctx context.Context, limit int) ([]*types.OrderProjection, error)
}
