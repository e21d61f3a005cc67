package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrNegativeStock = errors.New("stock cannot be negative")
	ErrNoImages      = errors.New("at least one image is required")
)

// Image references an asset already hosted by the media CDN.
type Image struct {
	URL      string
	PublicID string
	Format   string
	Width    int
	Height   int
}

// Item is a purchasable poster with its price and stock.
type Item struct {
	ID          string
	Title       string
	Price       float64
	Stock       int
	Dimensions  string
	Material    string
	Images      []Image
	IsAvailable bool
	Category    string
	Tags        []string
	Description string
}

// NewItem builds an available catalog item enforcing creation invariants.
func NewItem(id, title string, price float64, stock int, images []Image) (*Item, error) {
	item := &Item{ID: id, IsAvailable: true}
	if err := item.Rename(title); err != nil {
		return nil, err
	}
	if err := item.Reprice(price); err != nil {
		return nil, err
	}
	if err := item.SetStock(stock); err != nil {
		return nil, err
	}
	if err := item.ReplaceImages(images); err != nil {
		return nil, err
	}
	return item, nil
}

// Rename trims and validates the title.
func (i *Item) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	i.Title = title
	return nil
}

func (i *Item) Reprice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	i.Price = price
	return nil
}

func (i *Item) SetStock(stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	i.Stock = stock
	return nil
}

// ReplaceImages swaps the image set; an item always keeps at least one image.
func (i *Item) ReplaceImages(images []Image) error {
	if len(images) == 0 {
		return ErrNoImages
	}
	i.Images = append([]Image(nil), images...)
	return nil
}

// RemoveImages drops images by public ID.
func (i *Item) RemoveImages(publicIDs []string) error {
	if len(publicIDs) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(publicIDs))
	for _, id := range publicIDs {
		drop[id] = struct{}{}
	}
	kept := make([]Image, 0, len(i.Images))
	for _, img := range i.Images {
		if _, ok := drop[img.PublicID]; !ok {
			kept = append(kept, img)
		}
	}
	return i.ReplaceImages(kept)
}

// SetTags normalizes tags, dropping blanks and duplicates.
func (i *Item) SetTags(tags []string) {
	seen := map[string]struct{}{}
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	i.Tags = normalized
}

// Deactivate hides the item from storefront listings without deleting it.
func (i *Item) Deactivate() {
	i.IsAvailable = false
}

// Validate re-applies invariants before persistence.
func (i *Item) Validate() error {
	if err := i.Rename(i.Title); err != nil {
		return err
	}
	if i.Price < 0 {
		return ErrNegativePrice
	}
	if i.Stock < 0 {
		return ErrNegativeStock
	}
	if len(i.Images) == 0 {
		return ErrNoImages
	}
	return nil
}

// Clone returns a deep copy safe to hand out of a repository.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Images = append([]Image(nil), i.Images...)
	clone.Tags = append([]string(nil), i.Tags...)
	return &clone
}
