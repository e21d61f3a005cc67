package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*settings)

type settings struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *settings) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *settings) {
		s.metrics = newServiceMetrics(m)
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	st := newSettings(opts)
	return &Service{inner: inner, tracer: st.tracer, logger: st.logger, metrics: st.metrics}
}

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.Int("order.items", len(input.Items)),
		attribute.String("payment.method", input.Payment.Method),
		attribute.Bool("payment.settled", input.Settlement != nil),
	))
	defer span.End()
	if input.IdempotencyKey != "" {
		span.SetAttributes(attribute.String("idempotency.key", input.IdempotencyKey))
	}

	s.logInfo(ctx, "placing order", slog.Int("order.items", len(input.Items)), slog.String("customer.id", input.UserID))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejection(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("customer.id", input.UserID))
	}
	s.metrics.recordPlaced(ctx, result)
	span.SetAttributes(
		attribute.String("order.id", result.Entity.ID),
		attribute.String("order.status", string(result.Entity.Status)),
		attribute.Float64("order.total", result.Entity.TotalPrice),
	)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.Entity.ID), slog.Float64("order.total", result.Entity.TotalPrice))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id, userID string) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) ListCustomerOrders(ctx context.Context, input types.CustomerOrdersInput) (*types.OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListCustomerOrders", trace.WithAttributes(
		attribute.String("customer.id", input.UserID), attribute.Int("page", input.Page)))
	defer span.End()

	result, err := s.inner.ListCustomerOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customer orders", slog.String("customer.id", input.UserID))
	}
	span.SetAttributes(attribute.Int64("orders.total", result.Pagination.Total))
	return result, nil
}

func (s *Service) PaymentKeyID() string {
	return s.inner.PaymentKeyID()
}

func (s *Service) InitiatePayment(ctx context.Context, input types.InitiatePaymentInput) (*types.PaymentIntent, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.InitiatePayment", trace.WithAttributes(
		attribute.Int("order.items", len(input.Items)), attribute.Float64("order.total", input.TotalPrice)))
	defer span.End()

	s.logInfo(ctx, "initiating payment", slog.String("customer.id", input.UserID), slog.Float64("order.total", input.TotalPrice))
	result, err := s.inner.InitiatePayment(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to initiate payment", slog.String("customer.id", input.UserID))
	}
	span.SetAttributes(attribute.String("gateway.order_id", result.OrderID), attribute.Int64("payment.amount_minor", result.Amount))
	s.logInfo(ctx, "payment initiated", slog.String("gateway.order_id", result.OrderID), slog.String("receipt", result.Receipt))
	return result, nil
}

func (s *Service) ReconcilePayment(ctx context.Context, input types.VerifyPaymentInput) (*types.PlaceOrderInput, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ReconcilePayment", trace.WithAttributes(
		attribute.String("gateway.order_id", input.GatewayOrderID), attribute.String("payment.id", input.PaymentID)))
	defer span.End()

	result, err := s.inner.ReconcilePayment(ctx, input)
	if err != nil {
		if errors.Is(err, application.ErrPaymentVerificationFailed) {
			s.metrics.recordVerificationFailure(ctx)
		}
		return nil, s.handleError(ctx, span, err, "payment verification failed",
			slog.String("gateway.order_id", input.GatewayOrderID), slog.String("payment.id", input.PaymentID))
	}
	s.logInfo(ctx, "payment verified", slog.String("payment.id", input.PaymentID))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	logInfo(ctx, s.logger, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	return handleError(ctx, s.logger, span, err, msg, attrs...)
}

func logInfo(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func handleError(ctx context.Context, logger *slog.Logger, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	placed        metric.Int64Counter
	rejected      metric.Int64Counter
	orderValue    metric.Float64Histogram
	verifyFailure metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.placed", metric.WithDescription("Number of orders placed"))
	rejected, _ := m.Int64Counter("orders.rejected", metric.WithDescription("Number of order placements rejected, by reason"))
	orderValue, _ := m.Float64Histogram("orders.value", metric.WithDescription("Order totals in INR"), metric.WithUnit("INR"))
	verifyFailure, _ := m.Int64Counter("orders.payment.verification_failures", metric.WithDescription("Number of gateway signatures that did not verify"))
	statusChanges, _ := m.Int64Counter("orders.admin.mutations", metric.WithDescription("Number of admin order mutations"))
	return serviceMetrics{
		placed:        placed,
		rejected:      rejected,
		orderValue:    orderValue,
		verifyFailure: verifyFailure,
		statusChanges: statusChanges,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *types.OrderProjection) {
	attrs := metric.WithAttributes(attribute.String("payment.method", string(order.Entity.Payment.Method)))
	if m.placed != nil {
		m.placed.Add(ctx, 1, attrs)
	}
	if m.orderValue != nil {
		m.orderValue.Record(ctx, order.Entity.TotalPrice, attrs)
	}
}

func (m serviceMetrics) recordRejection(ctx context.Context, err error) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", rejectionReason(err))))
	}
}

func (m serviceMetrics) recordVerificationFailure(ctx context.Context) {
	if m.verifyFailure != nil {
		m.verifyFailure.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordAdminMutation(ctx context.Context, op string) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, application.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, application.ErrPriceMismatch):
		return "price_mismatch"
	case errors.Is(err, application.ErrPaymentAmountMismatch):
		return "payment_amount_mismatch"
	case errors.Is(err, application.ErrNotFound):
		return "not_found"
	case errors.Is(err, application.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, application.ErrConflict):
		return "conflict"
	}
	return "internal"
}

var _ orderports.Service = (*Service)(nil)
