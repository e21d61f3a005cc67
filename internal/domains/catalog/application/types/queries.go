package types

import "github.com/Apurer/poster-parlor-api/internal/shared/pagination"

// SortField enumerates the listing sort keys.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByPrice     SortField = "price"
	SortByStock     SortField = "stock"
	SortByTitle     SortField = "title"
)

// SortOrder is asc or desc; anything else means desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ItemFilter narrows a catalog listing. Zero values mean "no constraint".
type ItemFilter struct {
	IsAvailable *bool
	// Category matches exactly, ignoring case.
	Category string
	// Tags matches items having any tag containing one of the values.
	Tags []string
	Title string
	// Dimensions matches exactly, ignoring case.
	Dimensions string
	Material   string
	MinPrice   *float64
	MaxPrice   *float64
	MinStock   *int
	MaxStock   *int
	// Search matches title, description, or any tag.
	Search    string
	SortBy    SortField
	SortOrder SortOrder
}

// ItemQuery is the repository-level listing request.
type ItemQuery struct {
	Filter ItemFilter
	Offset int
	Limit  int
}

// ListItemsInput is the paged storefront listing request.
type ListItemsInput struct {
	Page   int
	Limit  int
	Filter ItemFilter
}

// ItemPage is one page of catalog items.
type ItemPage struct {
	Items      []*ItemProjection
	Pagination pagination.Info
	Filter     ItemFilter
}

// CategoryCount is the number of items per category.
type CategoryCount struct {
	Category string
	Count    int64
}

// Facets lists the values the storefront can filter on.
type Facets struct {
	Categories []CategoryCount
	Materials  []string
	Dimensions []string
}
