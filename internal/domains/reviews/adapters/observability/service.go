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

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
	reviewports "github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
)

const tracerName = "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/observability/service"

// Service decorates the review service with tracing, logging, and metrics.
type Service struct {
	inner   reviewports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core review service.
func New(inner reviewports.Service, opts ...Option) reviewports.Service {
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

func (s *Service) CreateReview(ctx context.Context, input types.CreateReviewInput) (*types.ReviewProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.CreateReview",
		trace.WithAttributes(attribute.String("item.id", input.ItemID), attribute.Int("review.rating", input.Rating)))
	defer span.End()

	result, err := s.inner.CreateReview(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create review", slog.String("item.id", input.ItemID))
	}
	s.metrics.recordCreated(ctx, result.Entity.Rating)
	span.SetAttributes(attribute.String("review.id", result.Entity.ID))
	s.logInfo(ctx, "review created", slog.String("review.id", result.Entity.ID), slog.String("item.id", input.ItemID))
	return result, nil
}

func (s *Service) UpdateReview(ctx context.Context, input types.UpdateReviewInput) (*types.ReviewProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.UpdateReview",
		trace.WithAttributes(attribute.String("review.id", input.ID), attribute.Bool("actor.admin", input.Actor.IsAdmin)))
	defer span.End()

	result, err := s.inner.UpdateReview(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update review", slog.String("review.id", input.ID))
	}
	s.logInfo(ctx, "review updated", slog.String("review.id", input.ID))
	return result, nil
}

func (s *Service) DeleteReview(ctx context.Context, id string, actor types.Actor) error {
	ctx, span := s.tracer.Start(ctx, "ReviewService.DeleteReview",
		trace.WithAttributes(attribute.String("review.id", id), attribute.Bool("actor.admin", actor.IsAdmin)))
	defer span.End()

	if err := s.inner.DeleteReview(ctx, id, actor); err != nil {
		return s.handleError(ctx, span, err, "failed to delete review", slog.String("review.id", id))
	}
	s.logInfo(ctx, "review deleted", slog.String("review.id", id))
	return nil
}

func (s *Service) ListForItem(ctx context.Context, input types.ListReviewsInput) (*types.ReviewPage, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.ListForItem",
		trace.WithAttributes(attribute.String("item.id", input.ItemID), attribute.Int("page", input.Page)))
	defer span.End()

	result, err := s.inner.ListForItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list reviews", slog.String("item.id", input.ItemID))
	}
	span.SetAttributes(attribute.Int64("reviews.total", result.Pagination.Total))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	created metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("reviews.service.created", metric.WithDescription("Number of reviews written, by rating"))
	return serviceMetrics{created: created}
}

func (m serviceMetrics) recordCreated(ctx context.Context, rating int) {
	if m.created != nil {
		m.created.Add(ctx, 1, metric.WithAttributes(attribute.Int("rating", rating)))
	}
}

var _ reviewports.Service = (*Service)(nil)
