package repositories

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// CategoryRepositoryFacade defines CRUD over categories.
type CategoryRepositoryFacade interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	// FindCategories lists categories ordered by their display order.
	// activeOnly limits to isActive categories.
	FindCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
}

// SectionRepositoryFacade defines CRUD over sections.
type SectionRepositoryFacade interface {
	FindSectionByID(ctx context.Context, sectionID string) (*domain.Section, error)
	FindSections(ctx context.Context, activeOnly bool) ([]domain.Section, error)
	SaveSection(ctx context.Context, section domain.Section) error
	UpdateSection(ctx context.Context, section domain.Section) error
	DeleteSection(ctx context.Context, sectionID string) error
}
