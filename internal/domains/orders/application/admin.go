package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

const (
	DefaultAdminPageLimit = 10
	MaxAdminPageLimit     = 100
	DefaultRecentOrders   = 10
)

// AdminService runs back-office order operations.
type AdminService struct {
	repo      ports.Repository
	catalog   ports.Catalog
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// AdminOption customizes the admin service.
type AdminOption func(*AdminService)

// WithEventPublisher announces status changes, cancellations, and deletions.
func WithEventPublisher(p ports.EventPublisher) AdminOption {
	return func(s *AdminService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithAdminLogger records event delivery failures.
func WithAdminLogger(logger *slog.Logger) AdminOption {
	return func(s *AdminService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewAdminService(repo ports.Repository, catalog ports.Catalog, opts ...AdminOption) *AdminService {
	s := &AdminService{
		repo:      repo,
		catalog:   catalog,
		publisher: ports.NoopPublisher{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListOrders filters by status and customer contact, sorted newest first by default.
func (s *AdminService) ListOrders(ctx context.Context, input types.AdminListInput) (*types.OrderPage, error) {
	req := pagination.Clamp(input.Page, input.Limit, DefaultAdminPageLimit, MaxAdminPageLimit)
	query := types.OrderQuery{
		Search: strings.TrimSpace(input.Search),
		Asc:    strings.EqualFold(input.SortOrder, "asc"),
		Offset: req.Offset(),
		Limit:  req.Limit,
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, mapError(err)
		}
		query.Status = status
	}
	switch field := types.SortField(strings.TrimSpace(input.SortBy)); field {
	case "":
		query.SortBy = types.SortByCreatedAt
	case types.SortByCreatedAt, types.SortByTotalPrice, types.SortByStatus:
		query.SortBy = field
	default:
		return nil, invalid("unsupported sort field %q", input.SortBy)
	}
	orders, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.OrderPage{Orders: orders, Pagination: pagination.NewInfo(req, total)}, nil
}

// GetOrder loads any order regardless of owner.
func (s *AdminService) GetOrder(ctx context.Context, id string) (*types.OrderProjection, error) {
	if err := validateID(id); err != nil {
		return nil, invalid("invalid order id format")
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// UpdateStatus moves an order along its lifecycle. CANCELLED goes through
// CancelOrder so the stock comes back.
func (s *AdminService) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderProjection, error) {
	next, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	if next == domain.StatusCancelled {
		return s.CancelOrder(ctx, types.CancelOrderInput{ID: input.ID})
	}
	existing, err := s.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	order := existing.Entity
	previous := order.Status
	if err := order.UpdateStatus(next, input.TrackingNumber); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	if previous != next {
		s.publish(ctx, domain.OrderStatusChanged{
			BaseEvent:      domain.BaseEvent{OrderID: order.ID, At: s.now()},
			From:           previous,
			To:             next,
			TrackingNumber: order.TrackingNumber,
		})
	}
	return saved, nil
}

// CancelOrder cancels a pending or processing order and puts its stock back.
// Restores already applied stay applied when a later one fails.
func (s *AdminService) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*types.OrderProjection, error) {
	existing, err := s.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	order := existing.Entity
	if err := order.Cancel(input.Reason); err != nil {
		return nil, mapError(err)
	}
	for _, item := range order.Items {
		if err := s.catalog.RestoreStock(ctx, item.ItemID, item.Quantity); err != nil {
			return nil, fmt.Errorf("%w: restore stock for %s: %w", ErrInternal, item.ItemID, err)
		}
	}
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.OrderCancelled{
		BaseEvent: domain.BaseEvent{OrderID: order.ID, At: s.now()},
		Reason:    strings.TrimSpace(input.Reason),
	})
	return saved, nil
}

// DeleteOrder removes an order permanently without touching stock.
func (s *AdminService) DeleteOrder(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return invalid("invalid order id format")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	s.publish(ctx, domain.OrderDeleted{BaseEvent: domain.BaseEvent{OrderID: id, At: s.now()}})
	return nil
}

// RecentOrders returns the newest orders.
func (s *AdminService) RecentOrders(ctx context.Context, limit int) ([]*types.OrderProjection, error) {
	if limit <= 0 {
		limit = DefaultRecentOrders
	}
	if limit > MaxAdminPageLimit {
		limit = MaxAdminPageLimit
	}
	orders, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

func (s *AdminService) publish(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("event", event.EventName()), slog.String("error", err.Error()))
	}
}

var _ ports.AdminService = (*AdminService)(nil)
