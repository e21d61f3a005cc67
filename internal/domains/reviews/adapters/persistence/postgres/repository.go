package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists reviews in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReviewRecord maps a review to the reviews table. The composite unique index
// enforces one review per user and item.
type ReviewRecord struct {
	ID        string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID    string         `gorm:"column:user_id;type:varchar(36);uniqueIndex:idx_reviews_user_item"`
	ItemID    string         `gorm:"column:item_id;type:varchar(36);uniqueIndex:idx_reviews_user_item;index"`
	Rating    int            `gorm:"column:rating;index"`
	Comment   string         `gorm:"column:comment;size:500"`
	Images    pq.StringArray `gorm:"column:images;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (ReviewRecord) TableName() string { return "reviews" }

func (r *Repository) Insert(ctx context.Context, review *domain.Review) (*types.ReviewProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if review == nil {
		return nil, errors.New("review is nil")
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(review)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateReview
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Update rewrites the mutable columns of an existing review.
func (r *Repository) Update(ctx context.Context, review *domain.Review) (*types.ReviewProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if review == nil {
		return nil, errors.New("review is nil")
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(review)
	result := r.db.WithContext(ctx).Model(&record).
		Select("rating", "comment", "images", "updated_at").
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, review.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*types.ReviewProjection, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) FindByUserAndItem(ctx context.Context, userID, itemID string) (*types.ReviewProjection, error) {
	return r.first(ctx, "user_id = ? AND item_id = ?", userID, itemID)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&ReviewRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns a filtered page plus the total number of matches.
func (r *Repository) List(ctx context.Context, query types.ReviewQuery) ([]*types.ReviewProjection, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	scoped := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&ReviewRecord{}).Where("item_id = ?", query.ItemID)
		if query.Rating != 0 {
			tx = tx.Where("rating = ?", query.Rating)
		}
		if query.HasImages {
			tx = tx.Where("cardinality(images) > 0")
		}
		return tx
	}
	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	tx := scoped().Order(orderBy(query.Sort)).Order("id")
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}
	var records []ReviewRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	reviews := make([]*types.ReviewProjection, 0, len(records))
	for i := range records {
		reviews = append(reviews, records[i].toProjection())
	}
	return reviews, total, nil
}

// Stats aggregates the average and per-star counts for an item.
func (r *Repository) Stats(ctx context.Context, itemID string) (*types.Stats, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var buckets []struct {
		Rating int
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&ReviewRecord{}).
		Select("rating, COUNT(*) AS count").
		Where("item_id = ?", itemID).
		Group("rating").
		Scan(&buckets).Error; err != nil {
		return nil, err
	}
	stats := &types.Stats{RatingDistribution: map[int]int64{}}
	var sum int64
	for _, b := range buckets {
		stats.RatingDistribution[b.Rating] = b.Count
		stats.TotalReviews += b.Count
		sum += int64(b.Rating) * b.Count
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*types.ReviewProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ReviewRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres review repository not configured")
	}
	return nil
}

func orderBy(sort types.SortOrder) string {
	switch sort {
	case types.SortOldest:
		return "created_at ASC"
	case types.SortHighest:
		return "rating DESC, created_at DESC"
	case types.SortLowest:
		return "rating ASC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func toRecord(review *domain.Review) ReviewRecord {
	images := pq.StringArray{}
	images = append(images, review.Images...)
	return ReviewRecord{
		ID:      review.ID,
		UserID:  review.UserID,
		ItemID:  review.ItemID,
		Rating:  review.Rating,
		Comment: review.Comment,
		Images:  images,
	}
}

func (r ReviewRecord) toProjection() *types.ReviewProjection {
	var images []string
	if len(r.Images) > 0 {
		images = append(images, r.Images...)
	}
	review := &domain.Review{
		ID:      r.ID,
		UserID:  r.UserID,
		ItemID:  r.ItemID,
		Rating:  r.Rating,
		Comment: r.Comment,
		Images:  images,
	}
	return projection.New(review, r.CreatedAt, r.UpdatedAt)
}
