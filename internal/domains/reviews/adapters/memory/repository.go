package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	review    *domain.Review
	seq       int64
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory review persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	reviews map[string]*entry
	seq     int64
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{reviews: map[string]*entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Insert(_ context.Context, review *domain.Review) (*types.ReviewProjection, error) {
	if review == nil {
		return nil, errors.New("review is nil")
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.reviews {
		if e.review.UserID == review.UserID && e.review.ItemID == review.ItemID {
			return nil, ports.ErrDuplicateReview
		}
	}
	now := r.now()
	r.seq++
	e := &entry{review: review.Clone(), seq: r.seq, createdAt: now, updatedAt: now}
	r.reviews[review.ID] = e
	return e.projection(), nil
}

func (r *Repository) Update(_ context.Context, review *domain.Review) (*types.ReviewProjection, error) {
	if review == nil {
		return nil, errors.New("review is nil")
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.reviews[review.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	e.review = review.Clone()
	e.updatedAt = r.now()
	return e.projection(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*types.ReviewProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return e.projection(), nil
}

func (r *Repository) FindByUserAndItem(_ context.Context, userID, itemID string) (*types.ReviewProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.reviews {
		if e.review.UserID == userID && e.review.ItemID == itemID {
			return e.projection(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *Repository) List(_ context.Context, query types.ReviewQuery) ([]*types.ReviewProjection, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*entry, 0)
	for _, e := range r.reviews {
		if e.review.ItemID != query.ItemID {
			continue
		}
		if query.Rating != 0 && e.review.Rating != query.Rating {
			continue
		}
		if query.HasImages && !e.review.HasImages() {
			continue
		}
		matched = append(matched, e)
	}
	sortEntries(matched, query.Sort)
	total := int64(len(matched))
	start := query.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}
	result := make([]*types.ReviewProjection, 0, end-start)
	for _, e := range matched[start:end] {
		result = append(result, e.projection())
	}
	return result, total, nil
}

func (r *Repository) Stats(_ context.Context, itemID string) (*types.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &types.Stats{RatingDistribution: map[int]int64{}}
	var sum int64
	for _, e := range r.reviews {
		if e.review.ItemID != itemID {
			continue
		}
		stats.TotalReviews++
		stats.RatingDistribution[e.review.Rating]++
		sum += int64(e.review.Rating)
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}

func (e *entry) projection() *types.ReviewProjection {
	return projection.New(e.review.Clone(), e.createdAt, e.updatedAt)
}

// sortEntries orders by the requested key; newer reviews win ties.
func sortEntries(entries []*entry, order types.SortOrder) {
	newer := func(a, b *entry) bool {
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.After(b.createdAt)
		}
		return a.seq > b.seq
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch order {
		case types.SortOldest:
			return newer(b, a)
		case types.SortHighest:
			if a.review.Rating != b.review.Rating {
				return a.review.Rating > b.review.Rating
			}
		case types.SortLowest:
			if a.review.Rating != b.review.Rating {
				return a.review.Rating < b.review.Rating
			}
		}
		return newer(a, b)
	})
}
