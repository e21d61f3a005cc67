package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
	MaxImages        = 5
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("comment must be at most 500 characters")
	ErrTooManyImages  = errors.New("at most 5 images are allowed per review")
	ErrEmptyImageURL  = errors.New("image url is required")
	ErrMissingAuthor  = errors.New("review author is required")
	ErrMissingItem    = errors.New("reviewed item is required")
)

// Review is one customer's rating of a catalog item.
type Review struct {
	ID      string
	UserID  string
	ItemID  string
	Rating  int
	Comment string
	Images  []string
}

// NewReview builds a review ensuring required invariants.
func NewReview(id, userID, itemID string, rating int, comment string, images []string) (*Review, error) {
	r := &Review{ID: id, UserID: strings.TrimSpace(userID), ItemID: strings.TrimSpace(itemID)}
	if r.UserID == "" {
		return nil, ErrMissingAuthor
	}
	if r.ItemID == "" {
		return nil, ErrMissingItem
	}
	if err := r.Rate(rating); err != nil {
		return nil, err
	}
	if err := r.SetComment(comment); err != nil {
		return nil, err
	}
	if err := r.ReplaceImages(images); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Review) Rate(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	r.Rating = rating
	return nil
}

// SetComment trims the comment and enforces the length limit in characters.
func (r *Review) SetComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	r.Comment = comment
	return nil
}

// ReplaceImages swaps the image list wholesale.
func (r *Review) ReplaceImages(images []string) error {
	cleaned, err := cleanImages(images)
	if err != nil {
		return err
	}
	if len(cleaned) > MaxImages {
		return ErrTooManyImages
	}
	r.Images = cleaned
	return nil
}

// AppendImages adds images after the existing ones.
func (r *Review) AppendImages(images []string) error {
	cleaned, err := cleanImages(images)
	if err != nil {
		return err
	}
	if len(r.Images)+len(cleaned) > MaxImages {
		return ErrTooManyImages
	}
	r.Images = append(r.Images, cleaned...)
	return nil
}

// RemoveImages drops every image whose URL is listed.
func (r *Review) RemoveImages(urls []string) {
	if len(urls) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		drop[strings.TrimSpace(u)] = struct{}{}
	}
	kept := r.Images[:0:0]
	for _, img := range r.Images {
		if _, ok := drop[img]; !ok {
			kept = append(kept, img)
		}
	}
	r.Images = kept
}

func (r *Review) HasImages() bool { return len(r.Images) > 0 }

// OwnedBy reports whether userID wrote the review.
func (r *Review) OwnedBy(userID string) bool {
	return userID != "" && r.UserID == userID
}

// Validate re-applies core invariants for persistence.
func (r *Review) Validate() error {
	if r.UserID == "" {
		return ErrMissingAuthor
	}
	if r.ItemID == "" {
		return ErrMissingItem
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(r.Comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	if len(r.Images) > MaxImages {
		return ErrTooManyImages
	}
	return nil
}

func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Images != nil {
		clone.Images = append([]string(nil), r.Images...)
	}
	return &clone
}

func cleanImages(images []string) ([]string, error) {
	out := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			return nil, ErrEmptyImageURL
		}
		out = append(out, img)
	}
	return out, nil
}
