package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

// AdminService decorates the admin order service.
type AdminService struct {
	inner   orderports.AdminService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

// NewAdmin wraps the admin order service.
func NewAdmin(inner orderports.AdminService, opts ...Option) orderports.AdminService {
	st := newSettings(opts)
	return &AdminService{inner: inner, tracer: st.tracer, logger: st.logger, metrics: st.metrics}
}

func (s *AdminService) ListOrders(ctx context.Context, input types.AdminListInput) (*types.OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "OrderAdminService.ListOrders", trace.WithAttributes(
		attribute.Int("page", input.Page), attribute.String("order.status", input.Status)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to list orders", slog.String("order.status", input.Status))
	}
	span.SetAttributes(attribute.Int64("orders.total", result.Pagination.Total))
	return result, nil
}

func (s *AdminService) GetOrder(ctx context.Context, id string) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderAdminService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *AdminService) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderAdminService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", input.ID), attribute.String("order.status", input.Status)))
	defer span.End()

	logInfo(ctx, s.logger, "updating order status", slog.String("order.id", input.ID), slog.String("order.status", input.Status))
	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to update order status", slog.String("order.id", input.ID))
	}
	s.metrics.recordAdminMutation(ctx, "update_status")
	return result, nil
}

func (s *AdminService) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderAdminService.CancelOrder", trace.WithAttributes(attribute.String("order.id", input.ID)))
	defer span.End()

	logInfo(ctx, s.logger, "cancelling order", slog.String("order.id", input.ID))
	result, err := s.inner.CancelOrder(ctx, input)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to cancel order", slog.String("order.id", input.ID))
	}
	s.metrics.recordAdminMutation(ctx, "cancel")
	logInfo(ctx, s.logger, "order cancelled", slog.String("order.id", input.ID))
	return result, nil
}

func (s *AdminService) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrderAdminService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	logInfo(ctx, s.logger, "deleting order", slog.String("order.id", id))
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return handleError(ctx, s.logger, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.metrics.recordAdminMutation(ctx, "delete")
	return nil
}

func (s *AdminService) RecentOrders(ctx context.Context, limit int) ([]*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderAdminService.RecentOrders", trace.WithAttributes(attribute.Int("limit", limit)))
	defer span.End()

	result, err := s.inner.RecentOrders(ctx, limit)
	if err != nil {
		return nil, handleError(ctx, s.logger, span, err, "failed to load recent orders")
	}
	return result, nil
}

var _ orderports.AdminService = (*AdminService)(nil)
