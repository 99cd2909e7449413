package dto

import (
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
// The slug never changes after creation.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// CreateSectionRequest defines the data needed to create a section.
type CreateSectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateSectionRequest defines the data allowed for updating a section.
type UpdateSectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// CategoryResponse is the category shape returned to clients.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	ToolCount   int64     `json:"toolCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SectionResponse is the section shape returned to clients.
type SectionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	ToolCount   int64     `json:"toolCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NavigationEntry is one category with its sections, for the catalog menu.
type NavigationEntry struct {
	CategoryResponse
	Sections []SectionResponse `json:"sections"`
}

// ToCategoryResponse converts a domain.Category to its response DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.CategoryID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		Order:       c.Order,
		IsActive:    c.IsActive,
		ToolCount:   c.ToolCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToSectionResponse converts a domain.Section to its response DTO.
func ToSectionResponse(s *domain.Section) SectionResponse {
	return SectionResponse{
		ID:          s.SectionID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Icon:        s.Icon,
		Order:       s.Order,
		IsActive:    s.IsActive,
		ToolCount:   s.ToolCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToNavigationEntries converts the navigation tree for the wire.
func ToNavigationEntries(nav []domain.CategoryWithSections) []NavigationEntry {
	out := make([]NavigationEntry, len(nav))
	for i := range nav {
		entry := NavigationEntry{CategoryResponse: ToCategoryResponse(&nav[i].Category)}
		entry.Sections = make([]SectionResponse, len(nav[i].Sections))
		for j := range nav[i].Sections {
			entry.Sections[j] = ToSectionResponse(&nav[i].Sections[j])
		}
		out[i] = entry
	}
	return out
}
