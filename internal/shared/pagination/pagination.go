// Package pagination normalizes page/limit query values and builds page metadata.
package pagination

// Request is a normalized page request.
type Request struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Clamp coerces page to at least 1 and limit into [1, maxLimit].
// A non-positive limit falls back to defaultLimit before clamping.
func Clamp(page, limit, defaultLimit, maxLimit int) Request {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Request{Page: page, Limit: limit}
}

// Info describes where a page sits in the full result set.
type Info struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewInfo computes page metadata for the request and total row count.
func NewInfo(req Request, total int64) Info {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Info{
		CurrentPage: req.Page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       req.Limit,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
	}
}
