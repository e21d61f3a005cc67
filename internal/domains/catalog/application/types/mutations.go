package types

import "github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"

// CreateItemInput describes a new catalog item.
type CreateItemInput struct {
	Title       string
	Price       float64
	Stock       int
	Dimensions  string
	Material    string
	Images      []domain.Image
	Category    string
	Tags        []string
	Description string
	IsAvailable *bool
}

// ImageAction controls how new images combine with existing ones.
type ImageAction string

const (
	ImageActionAppend  ImageAction = "append"
	ImageActionReplace ImageAction = "replace"
)

// UpdateItemInput carries a partial update; nil fields are left untouched.
type UpdateItemInput struct {
	ID             string
	Title          *string
	Price          *float64
	Stock          *int
	Dimensions     *string
	Material       *string
	Category       *string
	Tags           *[]string
	Description    *string
	IsAvailable    *bool
	NewImages      []domain.Image
	ImagesToDelete []string
	ImageAction    ImageAction
}
