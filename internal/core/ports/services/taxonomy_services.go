package services

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	"github.com/apphgio/tools_platform_app/internal/dto"
)

// TaxonomySvcFacade manages categories and sections.
type TaxonomySvcFacade interface {
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	// ListNavigation returns active categories each with the active sections, for the catalog menu.
	ListNavigation(ctx context.Context) ([]domain.CategoryWithSections, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorUserID string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, updaterUserID string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string, deleterUserID string) error

	GetSectionByID(ctx context.Context, sectionID string) (*domain.Section, error)
	ListSections(ctx context.Context, activeOnly bool) ([]domain.Section, error)
	CreateSection(ctx context.Context, req dto.CreateSectionRequest, creatorUserID string) (*domain.Section, error)
	UpdateSection(ctx context.Context, sectionID string, req dto.UpdateSectionRequest, updaterUserID string) (*domain.Section, error)
	DeleteSection(ctx context.Context, sectionID string, deleterUserID string) error
}
