package orders

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName validates, prices, stores, and reserves stock for an order.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
	// PublishOrderPlacedActivityName announces a stored order downstream.
	PublishOrderPlacedActivityName = "orders.activities.PublishOrderPlaced"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service   orderports.Service
	publisher orderports.EventPublisher
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
// service must run placement directly, not through a workflow orchestrator.
func NewActivities(service orderports.Service, publisher orderports.EventPublisher) *Activities {
	return &Activities{service: service, publisher: publisher}
}

// PlaceOrder runs the placement workflow once. Business rejections come back
// as non-retryable application errors typed with their taxonomy code.
func (a *Activities) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized")
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "items", len(input.Items), "customerId", input.UserID)
	projection, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		code := application.ErrorCode(err)
		logger.Error("PlaceOrder activity failed", "code", code, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), code, err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", projection.Entity.ID)
	return projection, nil
}

// PublishOrderPlaced publishes the placement event. A heartbeat marks delivery
// so a retried attempt does not publish twice.
func (a *Activities) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		return errors.New("order publish activity not initialized")
	}
	if a.publisher == nil {
		logger.Info("event publisher not configured; skipping", "orderId", event.OrderID)
		return nil
	}

	var hb publishHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Published {
		logger.Info("PublishOrderPlaced already completed in prior attempt; skipping", "orderId", event.OrderID)
		return nil
	}

	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Error("PublishOrderPlaced failed", "orderId", event.OrderID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, publishHeartbeat{Published: true})
	logger.Info("PublishOrderPlaced activity completed", "orderId", event.OrderID)
	return nil
}

type publishHeartbeat struct {
	Published bool
}
