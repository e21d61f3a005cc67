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

	"github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	userdomain "github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
	userports "github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user")
	}
	s.metrics.recordRegistered(ctx)
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.logInfo(ctx, "user registered", slog.String("user.id", result.User.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, input types.LoginInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, input)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	s.metrics.recordLogin(ctx, true)
	span.SetAttributes(attribute.String("user.id", result.User.ID), attribute.String("user.role", string(result.User.Role)))
	s.logInfo(ctx, "user logged in", slog.String("user.id", result.User.ID))
	return result, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*types.TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Refresh")
	defer span.End()
	result, err := s.inner.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to refresh session")
	}
	s.metrics.recordRefresh(ctx)
	return result, nil
}

// Authenticate runs on every guarded request, so it only traces.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*types.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	result, err := s.inner.Authenticate(ctx, accessToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", result.UserID))
	return result, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Me", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	result, err := s.inner.Me(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load current user", slog.String("user.id", userID))
	}
	return result, nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	if err := s.inner.Logout(ctx, userID); err != nil {
		return s.handleError(ctx, span, err, "failed to log out", slog.String("user.id", userID))
	}
	s.logInfo(ctx, "user logged out", slog.String("user.id", userID))
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByID", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()
	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user", slog.String("user.id", id))
	}
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	registered metric.Int64Counter
	logins     metric.Int64Counter
	refreshes  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of login attempts"))
	refreshes, _ := m.Int64Counter("users.service.refreshes", metric.WithDescription("Number of refresh token rotations"))
	return serviceMetrics{registered: registered, logins: logins, refreshes: refreshes}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context, success bool) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}

func (m serviceMetrics) recordRefresh(ctx context.Context) {
	if m.refreshes != nil {
		m.refreshes.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
