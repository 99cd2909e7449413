package services

import (
	"context"
	"fmt"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/utils"
	"github.com/google/uuid"
)

// taxonomyService implements TaxonomySvcFacade over categories and sections.
type taxonomyService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
	sectionRepo  portsrepo.SectionRepositoryFacade
	toolRepo     portsrepo.ToolRepositoryFacade
	audit        portssvc.AuditSvcFacade
}

// NewTaxonomyService creates a new taxonomy service.
func NewTaxonomyService(
	categoryRepo portsrepo.CategoryRepositoryFacade,
	sectionRepo portsrepo.SectionRepositoryFacade,
	toolRepo portsrepo.ToolRepositoryFacade,
	audit portssvc.AuditSvcFacade,
) portssvc.TaxonomySvcFacade {
	return &taxonomyService{
		categoryRepo: categoryRepo,
		sectionRepo:  sectionRepo,
		toolRepo:     toolRepo,
		audit:        audit,
	}
}

var _ portssvc.TaxonomySvcFacade = (*taxonomyService)(nil)

func (s *taxonomyService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", categoryID, err)
	}
	return category, nil
}

func (s *taxonomyService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	categories, err := s.categoryRepo.FindCategories(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *taxonomyService) ListNavigation(ctx context.Context) ([]domain.CategoryWithSections, error) {
	categories, err := s.categoryRepo.FindCategories(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for navigation: %w", err)
	}
	sections, err := s.sectionRepo.FindSections(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections for navigation: %w", err)
	}

	nav := make([]domain.CategoryWithSections, len(categories))
	for i := range categories {
		nav[i] = domain.CategoryWithSections{Category: categories[i], Sections: sections}
	}
	return nav, nil
}

func (s *taxonomyService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorUserID string) (*domain.Category, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Order:       req.Order,
		IsActive:    isActive,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
			UpdatedAt: now,
			UpdatedBy: creatorUserID,
		},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.recordTaxonomyEvent(ctx, "categories", "CATEGORY_CREATED",
		fmt.Sprintf("Category %q created", category.Name), creatorUserID, "category", category.CategoryID, category.Name)
	return &category, nil
}

func (s *taxonomyService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, updaterUserID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s for update: %w", categoryID, err)
	}

	// The slug is permanent; renaming only changes the display name.
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()
	category.UpdatedBy = updaterUserID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}

	s.recordTaxonomyEvent(ctx, "categories", "CATEGORY_UPDATED",
		fmt.Sprintf("Category %q updated", category.Name), updaterUserID, "category", category.CategoryID, category.Name)
	return category, nil
}

func (s *taxonomyService) DeleteCategory(ctx context.Context, categoryID string, deleterUserID string) error {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to find category %s for delete: %w", categoryID, err)
	}
	if category.ToolCount > 0 {
		return fmt.Errorf("category %s still has %d tools: %w", categoryID, category.ToolCount, apperrors.ErrValidation)
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}

	s.recordTaxonomyEvent(ctx, "categories", "CATEGORY_DELETED",
		fmt.Sprintf("Category %q deleted", category.Name), deleterUserID, "category", categoryID, category.Name)
	return nil
}

func (s *taxonomyService) GetSectionByID(ctx context.Context, sectionID string) (*domain.Section, error) {
	section, err := s.sectionRepo.FindSectionByID(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get section %s: %w", sectionID, err)
	}
	return section, nil
}

func (s *taxonomyService) ListSections(ctx context.Context, activeOnly bool) ([]domain.Section, error) {
	sections, err := s.sectionRepo.FindSections(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

func (s *taxonomyService) CreateSection(ctx context.Context, req dto.CreateSectionRequest, creatorUserID string) (*domain.Section, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	section := domain.Section{
		SectionID:   uuid.NewString(),
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Icon:        req.Icon,
		Order:       req.Order,
		IsActive:    isActive,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
			UpdatedAt: now,
			UpdatedBy: creatorUserID,
		},
	}
	if err := s.sectionRepo.SaveSection(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	s.recordTaxonomyEvent(ctx, "sections", "SECTION_CREATED",
		fmt.Sprintf("Section %q created", section.Name), creatorUserID, "section", section.SectionID, section.Name)
	return &section, nil
}

func (s *taxonomyService) UpdateSection(ctx context.Context, sectionID string, req dto.UpdateSectionRequest, updaterUserID string) (*domain.Section, error) {
	section, err := s.sectionRepo.FindSectionByID(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find section %s for update: %w", sectionID, err)
	}

	if req.Name != nil {
		section.Name = *req.Name
	}
	if req.Description != nil {
		section.Description = *req.Description
	}
	if req.Icon != nil {
		section.Icon = *req.Icon
	}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if req.IsActive != nil {
		section.IsActive = *req.IsActive
	}
	section.UpdatedAt = time.Now()
	section.UpdatedBy = updaterUserID

	if err := s.sectionRepo.UpdateSection(ctx, *section); err != nil {
		return nil, fmt.Errorf("failed to update section %s: %w", sectionID, err)
	}

	s.recordTaxonomyEvent(ctx, "sections", "SECTION_UPDATED",
		fmt.Sprintf("Section %q updated", section.Name), updaterUserID, "section", section.SectionID, section.Name)
	return section, nil
}

func (s *taxonomyService) DeleteSection(ctx context.Context, sectionID string, deleterUserID string) error {
	section, err := s.sectionRepo.FindSectionByID(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("failed to find section %s for delete: %w", sectionID, err)
	}
	if section.ToolCount > 0 {
		return fmt.Errorf("section %s still has %d tools: %w", sectionID, section.ToolCount, apperrors.ErrValidation)
	}

	if err := s.sectionRepo.DeleteSection(ctx, sectionID); err != nil {
		return fmt.Errorf("failed to delete section %s: %w", sectionID, err)
	}

	s.recordTaxonomyEvent(ctx, "sections", "SECTION_DELETED",
		fmt.Sprintf("Section %q deleted", section.Name), deleterUserID, "section", sectionID, section.Name)
	return nil
}

func (s *taxonomyService) recordTaxonomyEvent(ctx context.Context, category, action, description, actorID, targetType, targetID, targetName string) {
	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    category,
		Action:      action,
		Description: description,
		ActorID:     actorID,
		TargetType:  targetType,
		TargetID:    targetID,
		TargetName:  targetName,
	})
}
