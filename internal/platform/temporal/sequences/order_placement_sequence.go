package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/poster-parlor-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence places the order and then publishes the placement event.
// Placement runs once; a retry would decrement stock a second time for keyless orders.
func RunOrderPlacementSequence(ctx workflow.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "items", len(input.Items))
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	publishOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		HeartbeatTimeout:    10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var projection types.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), orderactivities.PlaceOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}
	if projection.Entity == nil {
		logger.Info("order placement sequence placed without projection")
		return &projection, nil
	}
	logger.Info("order placement sequence placed", "orderId", projection.Entity.ID)

	// The order is stored; a failed publish is logged and does not fail the placement.
	event := domain.NewOrderPlaced(projection.Entity, workflow.Now(ctx))
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, publishOptions), orderactivities.PublishOrderPlacedActivityName, event).Get(ctx, nil); err != nil {
		logger.Error("order placement sequence publish failed", "orderId", projection.Entity.ID, "error", err)
		return &projection, nil
	}
	logger.Info("order placement sequence published", "orderId", projection.Entity.ID)
	return &projection, nil
}
