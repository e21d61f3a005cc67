package razorpay

import (
	"context"
	"errors"

	rzp "github.com/Apurer/poster-parlor-api/internal/clients/http/razorpay"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

var _ ports.PaymentGateway = (*Gateway)(nil)

// Gateway adapts the razorpay client to the orders payment port.
type Gateway struct {
	client *rzp.Client
}

func NewGateway(client *rzp.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) CreateOrder(ctx context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("razorpay gateway not configured")
	}
	order, err := g.client.CreateOrder(ctx, rzp.OrderRequest{
		Amount:   req.AmountMinor,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return toGatewayOrder(order), nil
}

func (g *Gateway) FetchOrder(ctx context.Context, id string) (*ports.GatewayOrder, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("razorpay gateway not configured")
	}
	order, err := g.client.FetchOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGatewayOrder(order), nil
}

func (g *Gateway) KeyID() string {
	if g == nil {
		return ""
	}
	return g.client.KeyID()
}

func toGatewayOrder(o *rzp.Order) *ports.GatewayOrder {
	return &ports.GatewayOrder{
		ID:       o.ID,
		Amount:   o.Amount,
		Currency: o.Currency,
		Receipt:  o.Receipt,
		Status:   o.Status,
	}
}
