package domain

// ListOptions carries the offset pagination parameters shared by every
// listing operation. Page is 1-indexed.
type ListOptions struct {
	Page  int
	Limit int

	// StartAfter is an opaque continuation cursor honored only by adapters
	// that report cursor support; it is never combined with Page.
	StartAfter string
}

// Normalize clamps the options to sane defaults.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
}

// Offset returns the row offset equivalent of the page/limit pair.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// PageMeta is the pagination metadata returned alongside every listing.
type PageMeta struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"totalPages"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	NextCursor string `json:"nextCursor,omitempty"` // set only in cursor mode
}

// NewPageMeta computes the offset-pagination metadata contract:
// hasNext = page*limit < total, hasPrev = page > 1, totalPages = ceil(total/limit).
func NewPageMeta(opts ListOptions, total int64) PageMeta {
	totalPages := int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	return PageMeta{
		Page:       opts.Page,
		Limit:      opts.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(opts.Page)*int64(opts.Limit) < total,
		HasPrev:    opts.Page > 1,
	}
}

// Page bundles items with their pagination metadata.
type Page[T any] struct {
	Items []T
	Meta  PageMeta
}
