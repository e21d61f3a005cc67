package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	item      *domain.Item
	seq       int64
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu    sync.RWMutex
	items map[string]*entry
	seq   int64
	now   func() time.Time
}

func NewRepository() *Repository {
	return &Repository{items: map[string]*entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, item *domain.Item) (*types.ItemProjection, error) {
	if item == nil {
		return nil, errors.New("catalog item is nil")
	}
	clone := item.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.items {
		if id != clone.ID && existing.item.Title == clone.Title {
			return nil, ports.ErrDuplicateTitle
		}
	}
	now := r.now()
	e, ok := r.items[clone.ID]
	if !ok {
		r.seq++
		e = &entry{seq: r.seq, createdAt: now}
		r.items[clone.ID] = e
	}
	e.item = clone
	e.updatedAt = now
	return e.projection(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*types.ItemProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return e.projection(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) List(_ context.Context, query types.ItemQuery) ([]*types.ItemProjection, int64, error) {
	r.mu.RLock()
	matched := make([]*entry, 0, len(r.items))
	for _, e := range r.items {
		if matches(e.item, query.Filter) {
			matched = append(matched, e)
		}
	}
	sortEntries(matched, query.Filter)
	total := int64(len(matched))
	start := query.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}
	result := make([]*types.ItemProjection, 0, end-start)
	for _, e := range matched[start:end] {
		result = append(result, e.projection())
	}
	r.mu.RUnlock()
	return result, total, nil
}

// AdjustStock applies delta with no floor check, like an unconditional increment.
func (r *Repository) AdjustStock(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	e.item.Stock += delta
	e.updatedAt = r.now()
	return nil
}

func (r *Repository) Facets(_ context.Context) (*types.Facets, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[string]int64{}
	materials := map[string]struct{}{}
	dimensions := map[string]struct{}{}
	for _, e := range r.items {
		counts[e.item.Category]++
		if e.item.Material != "" {
			materials[e.item.Material] = struct{}{}
		}
		if e.item.Dimensions != "" {
			dimensions[e.item.Dimensions] = struct{}{}
		}
	}
	facets := &types.Facets{}
	for category, count := range counts {
		facets.Categories = append(facets.Categories, types.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(facets.Categories, func(i, j int) bool { return facets.Categories[i].Category < facets.Categories[j].Category })
	facets.Materials = sortedKeys(materials)
	facets.Dimensions = sortedKeys(dimensions)
	return facets, nil
}

func (e *entry) projection() *types.ItemProjection {
	return projection.New(e.item.Clone(), e.createdAt, e.updatedAt)
}

func matches(item *domain.Item, f types.ItemFilter) bool {
	if f.IsAvailable != nil && item.IsAvailable != *f.IsAvailable {
		return false
	}
	if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
		return false
	}
	if len(f.Tags) > 0 && !anyTagContains(item.Tags, f.Tags) {
		return false
	}
	if f.Title != "" && !containsFold(item.Title, f.Title) {
		return false
	}
	if f.Dimensions != "" && !strings.EqualFold(item.Dimensions, f.Dimensions) {
		return false
	}
	if f.Material != "" && !containsFold(item.Material, f.Material) {
		return false
	}
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	if f.MinStock != nil && item.Stock < *f.MinStock {
		return false
	}
	if f.MaxStock != nil && item.Stock > *f.MaxStock {
		return false
	}
	if f.Search != "" {
		if !containsFold(item.Title, f.Search) &&
			!containsFold(item.Description, f.Search) &&
			!anyTagContains(item.Tags, []string{f.Search}) {
			return false
		}
	}
	return true
}

func sortEntries(entries []*entry, f types.ItemFilter) {
	asc := f.SortOrder == types.SortAsc
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less, equal bool
		switch f.SortBy {
		case types.SortByPrice:
			less, equal = a.item.Price < b.item.Price, a.item.Price == b.item.Price
		case types.SortByStock:
			less, equal = a.item.Stock < b.item.Stock, a.item.Stock == b.item.Stock
		case types.SortByTitle:
			less, equal = a.item.Title < b.item.Title, a.item.Title == b.item.Title
		default:
			less, equal = a.createdAt.Before(b.createdAt), a.createdAt.Equal(b.createdAt)
		}
		if equal {
			less = a.seq < b.seq
		}
		if asc {
			return less
		}
		return !less
	})
}

func anyTagContains(tags, needles []string) bool {
	for _, tag := range tags {
		for _, needle := range needles {
			if containsFold(tag, needle) {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
