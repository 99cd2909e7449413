package dto

import (
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// APIError is the stable error body nested in every error envelope.
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// NewErrorResponse builds the envelope with a current timestamp.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: APIError{
			Code:      code,
			Message:   message,
			Timestamp: time.Now().UTC(),
		},
	}
}

// PageMeta mirrors domain.PageMeta on the wire.
type PageMeta struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"totalPages"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// PaginatedResponse is the standard listing envelope.
type PaginatedResponse[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// ToPageMeta converts the domain pagination metadata for the wire.
func ToPageMeta(m domain.PageMeta) PageMeta {
	return PageMeta{
		Page:       m.Page,
		Limit:      m.Limit,
		Total:      m.Total,
		TotalPages: m.TotalPages,
		HasNext:    m.HasNext,
		HasPrev:    m.HasPrev,
		NextCursor: m.NextCursor,
	}
}

// PaginationParams are the shared listing query parameters.
type PaginationParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// ToListOptions converts the query parameters to domain list options.
func (p PaginationParams) ToListOptions() domain.ListOptions {
	opts := domain.ListOptions{Page: p.Page, Limit: p.Limit}
	opts.Normalize()
	return opts
}
