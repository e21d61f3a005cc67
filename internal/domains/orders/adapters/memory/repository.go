package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	order     *domain.Order
	seq       int64
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory order store for development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*entry
	seq    int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Insert(_ context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return nil, errors.New("order already exists")
	}
	now := r.now()
	r.seq++
	e := &entry{order: order.Clone(), seq: r.seq, createdAt: now, updatedAt: now}
	r.orders[order.ID] = e
	return e.projection(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return e.projection(), nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*types.OrderProjection, int64, error) {
	return r.List(ctx, types.OrderQuery{CustomerID: customerID, SortBy: types.SortByCreatedAt, Offset: offset, Limit: limit})
}

func (r *Repository) List(_ context.Context, query types.OrderQuery) ([]*types.OrderProjection, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*entry, 0, len(r.orders))
	for _, e := range r.orders {
		if matches(e.order, query) {
			matched = append(matched, e)
		}
	}
	sortEntries(matched, query)
	total := int64(len(matched))
	start := query.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}
	result := make([]*types.OrderProjection, 0, end-start)
	for _, e := range matched[start:end] {
		result = append(result, e.projection())
	}
	return result, total, nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	e.order = order.Clone()
	e.updatedAt = r.now()
	return e.projection(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]*types.OrderProjection, error) {
	orders, _, err := r.List(ctx, types.OrderQuery{SortBy: types.SortByCreatedAt, Limit: limit})
	return orders, err
}

func (e *entry) projection() *types.OrderProjection {
	return projection.New(e.order.Clone(), e.createdAt, e.updatedAt)
}

func matches(o *domain.Order, q types.OrderQuery) bool {
	if q.CustomerID != "" && o.Customer.UserID != q.CustomerID {
		return false
	}
	if q.Status != "" && o.Status != q.Status {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(o.Customer.Name), needle) &&
			!strings.Contains(strings.ToLower(o.Customer.Email), needle) &&
			!strings.Contains(strings.ToLower(o.Customer.Phone), needle) {
			return false
		}
	}
	return true
}

func sortEntries(entries []*entry, q types.OrderQuery) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less, equal bool
		switch q.SortBy {
		case types.SortByTotalPrice:
			less, equal = a.order.TotalPrice < b.order.TotalPrice, a.order.TotalPrice == b.order.TotalPrice
		case types.SortByStatus:
			less, equal = a.order.Status < b.order.Status, a.order.Status == b.order.Status
		default:
			less, equal = a.createdAt.Before(b.createdAt), a.createdAt.Equal(b.createdAt)
		}
		if equal {
			less = a.seq < b.seq
		}
		if q.Asc {
			return less
		}
		return !less
	})
}
