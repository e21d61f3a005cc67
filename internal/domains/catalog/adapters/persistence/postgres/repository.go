package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ItemRecord maps the catalog item aggregate to the catalog_items table.
type ItemRecord struct {
	ID          string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Title       string         `gorm:"column:title;uniqueIndex"`
	Price       float64        `gorm:"column:price;index"`
	Stock       int            `gorm:"column:stock"`
	Dimensions  string         `gorm:"column:dimensions"`
	Material    string         `gorm:"column:material"`
	Images      []ImageRecord  `gorm:"column:images;serializer:json"`
	IsAvailable bool           `gorm:"column:is_available;index"`
	Category    string         `gorm:"column:category;index"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	Description string         `gorm:"column:description"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

// ImageRecord is the JSON shape of an embedded image.
type ImageRecord struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

func (ItemRecord) TableName() string { return "catalog_items" }

// Save inserts or updates an item keyed by ID.
func (r *Repository) Save(ctx context.Context, item *domain.Item) (*types.ItemProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("catalog item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(item)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "price", "stock", "dimensions", "material", "images",
				"is_available", "category", "tags", "description", "updated_at",
			}),
		}).
		Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateTitle
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an item by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*types.ItemProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ItemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes an item permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&ItemRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns a filtered page plus the total number of matches.
func (r *Repository) List(ctx context.Context, query types.ItemQuery) ([]*types.ItemProjection, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	scoped := func() *gorm.DB {
		return applyFilter(r.db.WithContext(ctx).Model(&ItemRecord{}), query.Filter)
	}
	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	tx := scoped().Order(orderBy(query.Filter)).Order("id")
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}
	var records []ItemRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	items := make([]*types.ItemProjection, 0, len(records))
	for i := range records {
		items = append(items, records[i].toProjection())
	}
	return items, total, nil
}

// AdjustStock increments stock in a single UPDATE with no lower bound.
func (r *Repository) AdjustStock(ctx context.Context, id string, delta int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&ItemRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Facets aggregates category counts and distinct materials and dimensions.
func (r *Repository) Facets(ctx context.Context) (*types.Facets, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var categories []struct {
		Category string
		Count    int64
	}
	if err := r.db.WithContext(ctx).Model(&ItemRecord{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&categories).Error; err != nil {
		return nil, err
	}
	facets := &types.Facets{}
	for _, c := range categories {
		facets.Categories = append(facets.Categories, types.CategoryCount{Category: c.Category, Count: c.Count})
	}
	if err := r.db.WithContext(ctx).Model(&ItemRecord{}).
		Where("material <> ''").
		Distinct().Order("material").
		Pluck("material", &facets.Materials).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&ItemRecord{}).
		Where("dimensions <> ''").
		Distinct().Order("dimensions").
		Pluck("dimensions", &facets.Dimensions).Error; err != nil {
		return nil, err
	}
	return facets, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func applyFilter(tx *gorm.DB, f types.ItemFilter) *gorm.DB {
	if f.IsAvailable != nil {
		tx = tx.Where("is_available = ?", *f.IsAvailable)
	}
	if f.Category != "" {
		tx = tx.Where("LOWER(category) = LOWER(?)", f.Category)
	}
	if len(f.Tags) > 0 {
		patterns := make(pq.StringArray, 0, len(f.Tags))
		for _, tag := range f.Tags {
			patterns = append(patterns, likePattern(tag))
		}
		tx = tx.Where("EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ANY (?::text[]))", patterns)
	}
	if f.Title != "" {
		tx = tx.Where("title ILIKE ?", likePattern(f.Title))
	}
	if f.Dimensions != "" {
		tx = tx.Where("LOWER(dimensions) = LOWER(?)", f.Dimensions)
	}
	if f.Material != "" {
		tx = tx.Where("material ILIKE ?", likePattern(f.Material))
	}
	if f.MinPrice != nil {
		tx = tx.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinStock != nil {
		tx = tx.Where("stock >= ?", *f.MinStock)
	}
	if f.MaxStock != nil {
		tx = tx.Where("stock <= ?", *f.MaxStock)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		tx = tx.Where("(title ILIKE ? OR description ILIKE ? OR array_to_string(tags, ' ') ILIKE ?)", pattern, pattern, pattern)
	}
	return tx
}

func orderBy(f types.ItemFilter) clause.OrderByColumn {
	column := "created_at"
	switch f.SortBy {
	case types.SortByPrice:
		column = "price"
	case types.SortByStock:
		column = "stock"
	case types.SortByTitle:
		column = "title"
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: f.SortOrder != types.SortAsc}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(value string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(value)) + "%"
}

func toRecord(item *domain.Item) ItemRecord {
	images := make([]ImageRecord, 0, len(item.Images))
	for _, img := range item.Images {
		images = append(images, ImageRecord{URL: img.URL, PublicID: img.PublicID, Format: img.Format, Width: img.Width, Height: img.Height})
	}
	return ItemRecord{
		ID:          item.ID,
		Title:       item.Title,
		Price:       item.Price,
		Stock:       item.Stock,
		Dimensions:  item.Dimensions,
		Material:    item.Material,
		Images:      images,
		IsAvailable: item.IsAvailable,
		Category:    item.Category,
		Tags:        pq.StringArray(append([]string{}, item.Tags...)),
		Description: item.Description,
	}
}

func (r ItemRecord) toProjection() *types.ItemProjection {
	images := make([]domain.Image, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, domain.Image{URL: img.URL, PublicID: img.PublicID, Format: img.Format, Width: img.Width, Height: img.Height})
	}
	item := &domain.Item{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Stock:       r.Stock,
		Dimensions:  r.Dimensions,
		Material:    r.Material,
		Images:      images,
		IsAvailable: r.IsAvailable,
		Category:    r.Category,
		Tags:        append([]string(nil), r.Tags...),
		Description: r.Description,
	}
	return projection.New(item, r.CreatedAt, r.UpdatedAt)
}
