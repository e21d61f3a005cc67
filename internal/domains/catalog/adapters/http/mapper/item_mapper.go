package mapper

import (
	"strings"
	"time"

	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	"github.com/Apurer/poster-parlor-api/internal/shared/pagination"
)

// Image is the HTTP representation of a hosted poster image.
type Image struct {
	URL      string `json:"url" binding:"required"`
	PublicID string `json:"publicId" binding:"required"`
	Format   string `json:"format,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// CreateItem is the inbound payload for a new catalog item.
type CreateItem struct {
	Title       string   `json:"title" binding:"required"`
	Price       float64  `json:"price" binding:"gte=0"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Dimensions  string   `json:"dimensions"`
	Material    string   `json:"material"`
	Images      []Image  `json:"images" binding:"required,min=1,dive"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
}

// UpdateItem captures a partial update while preserving field presence.
type UpdateItem struct {
	Title          *string   `json:"title,omitempty"`
	Price          *float64  `json:"price,omitempty"`
	Stock          *int      `json:"stock,omitempty"`
	Dimensions     *string   `json:"dimensions,omitempty"`
	Material       *string   `json:"material,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	Description    *string   `json:"description,omitempty"`
	IsAvailable    *bool     `json:"isAvailable,omitempty"`
	Images         []Image   `json:"images,omitempty" binding:"omitempty,dive"`
	ImagesToDelete []string  `json:"imagesToDelete,omitempty"`
	ImageAction    string    `json:"imageAction,omitempty" binding:"omitempty,oneof=append replace"`
}

// Item is the HTTP representation of a catalog item.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Dimensions  string    `json:"dimensions,omitempty"`
	Material    string    `json:"material,omitempty"`
	Images      []Image   `json:"images"`
	IsAvailable bool      `json:"isAvailable"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ItemPage is a page of items plus pagination metadata.
type ItemPage struct {
	Items      []Item          `json:"items"`
	Pagination pagination.Info `json:"pagination"`
}

// CategoryCount is one category facet.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// FilterOptions lists the available storefront facets.
type FilterOptions struct {
	Categories []CategoryCount `json:"categories"`
	Materials  []string        `json:"materials"`
	Dimensions []string        `json:"dimensions"`
}

// ListQuery binds the storefront listing query string.
type ListQuery struct {
	Page        int      `form:"page"`
	Limit       int      `form:"limit"`
	IsAvailable *bool    `form:"isAvailable"`
	Category    string   `form:"category"`
	Tags        []string `form:"tags"`
	Title       string   `form:"title"`
	Dimensions  string   `form:"dimensions"`
	Material    string   `form:"material"`
	MinPrice    *float64 `form:"minPrice"`
	MaxPrice    *float64 `form:"maxPrice"`
	MinStock    *int     `form:"minStock"`
	MaxStock    *int     `form:"maxStock"`
	Search      string   `form:"search"`
	SortBy      string   `form:"sortBy"`
	SortOrder   string   `form:"sortOrder"`
}

// ToListInput maps the query string into a listing request. Page and limit default to 1 and 10.
func ToListInput(q ListQuery) types.ListItemsInput {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	var tags []string
	for _, raw := range q.Tags {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return types.ListItemsInput{
		Page:  q.Page,
		Limit: q.Limit,
		Filter: types.ItemFilter{
			IsAvailable: q.IsAvailable,
			Category:    strings.TrimSpace(q.Category),
			Tags:        tags,
			Title:       strings.TrimSpace(q.Title),
			Dimensions:  strings.TrimSpace(q.Dimensions),
			Material:    strings.TrimSpace(q.Material),
			MinPrice:    q.MinPrice,
			MaxPrice:    q.MaxPrice,
			MinStock:    q.MinStock,
			MaxStock:    q.MaxStock,
			Search:      strings.TrimSpace(q.Search),
			SortBy:      types.SortField(q.SortBy),
			SortOrder:   types.SortOrder(strings.ToLower(q.SortOrder)),
		},
	}
}

// ToCreateInput maps a create payload.
func ToCreateInput(payload CreateItem) types.CreateItemInput {
	return types.CreateItemInput{
		Title:       payload.Title,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Dimensions:  payload.Dimensions,
		Material:    payload.Material,
		Images:      toDomainImages(payload.Images),
		Category:    payload.Category,
		Tags:        payload.Tags,
		Description: payload.Description,
		IsAvailable: payload.IsAvailable,
	}
}

// ToUpdateInput maps a partial update payload for the given item.
func ToUpdateInput(id string, payload UpdateItem) types.UpdateItemInput {
	return types.UpdateItemInput{
		ID:             id,
		Title:          payload.Title,
		Price:          payload.Price,
		Stock:          payload.Stock,
		Dimensions:     payload.Dimensions,
		Material:       payload.Material,
		Category:       payload.Category,
		Tags:           payload.Tags,
		Description:    payload.Description,
		IsAvailable:    payload.IsAvailable,
		NewImages:      toDomainImages(payload.Images),
		ImagesToDelete: payload.ImagesToDelete,
		ImageAction:    types.ImageAction(payload.ImageAction),
	}
}

// FromProjection converts an item projection into its transport shape.
func FromProjection(p *types.ItemProjection) Item {
	if p == nil || p.Entity == nil {
		return Item{}
	}
	item := p.Entity
	images := make([]Image, 0, len(item.Images))
	for _, img := range item.Images {
		images = append(images, Image{URL: img.URL, PublicID: img.PublicID, Format: img.Format, Width: img.Width, Height: img.Height})
	}
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return Item{
		ID:          item.ID,
		Title:       item.Title,
		Price:       item.Price,
		Stock:       item.Stock,
		Dimensions:  item.Dimensions,
		Material:    item.Material,
		Images:      images,
		IsAvailable: item.IsAvailable,
		Category:    item.Category,
		Tags:        tags,
		Description: item.Description,
		CreatedAt:   p.Metadata.CreatedAt,
		UpdatedAt:   p.Metadata.UpdatedAt,
	}
}

// FromProjectionList converts a slice of projections.
func FromProjectionList(items []*types.ItemProjection) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromProjection(item))
	}
	return out
}

// FromPage converts a listing page.
func FromPage(page *types.ItemPage) ItemPage {
	if page == nil {
		return ItemPage{Items: []Item{}}
	}
	return ItemPage{Items: FromProjectionList(page.Items), Pagination: page.Pagination}
}

// FromFacets converts facet aggregates.
func FromFacets(f *types.Facets) FilterOptions {
	out := FilterOptions{Categories: []CategoryCount{}, Materials: []string{}, Dimensions: []string{}}
	if f == nil {
		return out
	}
	for _, c := range f.Categories {
		out.Categories = append(out.Categories, CategoryCount{Category: c.Category, Count: c.Count})
	}
	out.Materials = append(out.Materials, f.Materials...)
	out.Dimensions = append(out.Dimensions, f.Dimensions...)
	return out
}

func toDomainImages(in []Image) []domain.Image {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Image, 0, len(in))
	for _, img := range in {
		out = append(out, domain.Image{URL: img.URL, PublicID: img.PublicID, Format: img.Format, Width: img.Width, Height: img.Height})
	}
	return out
}
