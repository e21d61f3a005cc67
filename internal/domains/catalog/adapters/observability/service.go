package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/poster-parlor-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) AddItem(ctx context.Context, input types.CreateItemInput) (*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddItem",
		trace.WithAttributes(attribute.String("item.title", input.Title), attribute.Int("item.stock", input.Stock)))
	defer span.End()

	s.logInfo(ctx, "adding catalog item", slog.String("item.title", input.Title))
	result, err := s.inner.AddItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add catalog item", slog.String("item.title", input.Title))
	}
	s.metrics.recordMutation(ctx, "add")
	span.SetAttributes(attribute.String("item.id", result.Entity.ID))
	s.logInfo(ctx, "catalog item added", slog.String("item.id", result.Entity.ID))
	return result, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	result, err := s.inner.GetItem(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load catalog item", slog.String("item.id", id))
	}
	return result, nil
}

func (s *Service) ListItems(ctx context.Context, input types.ListItemsInput) (*types.ItemPage, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListItems",
		trace.WithAttributes(attribute.Int("page", input.Page), attribute.Int("limit", input.Limit)))
	defer span.End()

	result, err := s.inner.ListItems(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list catalog items", slog.Int("page", input.Page))
	}
	span.SetAttributes(attribute.Int64("items.total", result.Pagination.Total))
	return result, nil
}

func (s *Service) SearchItems(ctx context.Context, term string, limit int) ([]*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SearchItems", trace.WithAttributes(attribute.String("search.term", term)))
	defer span.End()

	result, err := s.inner.SearchItems(ctx, term, limit)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search catalog", slog.String("search.term", term))
	}
	span.SetAttributes(attribute.Int("items.count", len(result)))
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, input types.UpdateItemInput) (*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateItem", trace.WithAttributes(attribute.String("item.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "updating catalog item", slog.String("item.id", input.ID))
	result, err := s.inner.UpdateItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update catalog item", slog.String("item.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "update")
	return result, nil
}

func (s *Service) FilterOptions(ctx context.Context) (*types.Facets, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FilterOptions")
	defer span.End()

	result, err := s.inner.FilterOptions(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load filter options")
	}
	return result, nil
}

func (s *Service) FeaturedItems(ctx context.Context, limit int) ([]*types.ItemProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FeaturedItems")
	defer span.End()

	result, err := s.inner.FeaturedItems(ctx, limit)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load featured items")
	}
	return result, nil
}

func (s *Service) DeactivateItem(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeactivateItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	s.logInfo(ctx, "deactivating catalog item", slog.String("item.id", id))
	if err := s.inner.DeactivateItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to deactivate catalog item", slog.String("item.id", id))
	}
	s.metrics.recordMutation(ctx, "deactivate")
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting catalog item", slog.String("item.id", id))
	if err := s.inner.DeleteItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete catalog item", slog.String("item.id", id))
	}
	s.metrics.recordMutation(ctx, "delete")
	s.logInfo(ctx, "catalog item deleted", slog.String("item.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("catalog.service.mutations", metric.WithDescription("Number of catalog item mutations"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

var _ catalogports.Service = (*Service)(nil)
