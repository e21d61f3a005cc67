package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/poster-parlor-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order placement workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the placement workflow and waits for its result. A reused
// idempotency key attaches to the run already started for it.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildPlacementWorkflowID(input, traceComponent)
	run, err := o.client.ExecuteWorkflow(
		ctx,
		placementStartOptions(workflowID, o.taskQueue),
		orderworkflows.OrderPlacementWorkflowName,
		orderworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var projection types.OrderProjection
			if err := existingRun.Get(ctx, &projection); err != nil {
				return nil, translateWorkflowError(err)
			}
			return &projection, nil
		}
		return nil, fmt.Errorf("%w: start placement workflow: %w", application.ErrInternal, err)
	}
	var projection types.OrderProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &projection, nil
}

// placementStartOptions makes a duplicate start fail with
// WorkflowExecutionAlreadyStarted so PlaceOrder can attach to the earlier run.
func placementStartOptions(workflowID, taskQueue string) client.StartWorkflowOptions {
	return client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
}

// translateWorkflowError turns a typed activity failure back into the orders taxonomy.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() != "" {
		return application.ErrorFromCode(appErr.Type(), appErr.Error())
	}
	return fmt.Errorf("%w: placement workflow: %w", application.ErrInternal, err)
}

// InlineOrderWorkflows runs placement in-process without Temporal, for tests and dev fallbacks.
type InlineOrderWorkflows struct {
	service   ports.Service
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// InlineOption customizes the inline orchestrator.
type InlineOption func(*InlineOrderWorkflows)

func WithPublisher(p ports.EventPublisher) InlineOption {
	return func(o *InlineOrderWorkflows) {
		if p != nil {
			o.publisher = p
		}
	}
}

func WithLogger(logger *slog.Logger) InlineOption {
	return func(o *InlineOrderWorkflows) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewInlineOrderWorkflows(service ports.Service, opts ...InlineOption) *InlineOrderWorkflows {
	o := &InlineOrderWorkflows{
		service:   service,
		publisher: ports.NoopPublisher{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// PlaceOrder delegates to the service and publishes the placement event.
// Publish failures are logged; the order is already stored.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	placed, err := o.service.PlaceOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	event := domain.NewOrderPlaced(placed.Entity, o.now().UTC())
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order placed event",
			slog.String("order.id", placed.Entity.ID), slog.String("error", err.Error()))
	}
	return placed, nil
}

func buildPlacementWorkflowID(input types.PlaceOrderInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-placement-%d-%s", time.Now().UnixNano(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
