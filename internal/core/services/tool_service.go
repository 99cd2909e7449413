package services

import (
	"context"
	"errors"
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

// toolService implements ToolSvcFacade: catalog CRUD, the per-role
// visibility filter, and access recording.
type toolService struct {
	toolRepo      portsrepo.ToolRepositoryFacade
	categoryRepo  portsrepo.CategoryRepositoryFacade
	sectionRepo   portsrepo.SectionRepositoryFacade
	userRepo      portsrepo.UserRepositoryFacade
	accessLogRepo portsrepo.AccessLogRepositoryFacade
	audit         portssvc.AuditSvcFacade
}

// NewToolService creates a new tool service.
func NewToolService(
	toolRepo portsrepo.ToolRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	sectionRepo portsrepo.SectionRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	accessLogRepo portsrepo.AccessLogRepositoryFacade,
	audit portssvc.AuditSvcFacade,
) portssvc.ToolSvcFacade {
	return &toolService{
		toolRepo:      toolRepo,
		categoryRepo:  categoryRepo,
		sectionRepo:   sectionRepo,
		userRepo:      userRepo,
		accessLogRepo: accessLogRepo,
		audit:         audit,
	}
}

var _ portssvc.ToolSvcFacade = (*toolService)(nil)

func (s *toolService) GetToolByID(ctx context.Context, toolID string) (*domain.Tool, error) {
	tool, err := s.toolRepo.FindToolByID(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tool %s: %w", toolID, err)
	}
	return tool, nil
}

func (s *toolService) ListTools(ctx context.Context, params dto.ListToolsParams) (*domain.Page[domain.Tool], error) {
	opts := params.ToListOptions()
	tools, total, err := s.toolRepo.FindTools(ctx, params.ToFilters(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return &domain.Page[domain.Tool]{Items: tools, Meta: domain.NewPageMeta(opts, total)}, nil
}

// BuildVisibilityFilter produces the role-based predicate restricting
// which tools the given user may see. Every branch other than
// admin/workspace additionally pins status to active; an unknown role
// yields a filter that matches nothing.
func BuildVisibilityFilter(role domain.UserRole, assignedToolIDs, enrolledCourses []string) domain.ToolFilters {
	f := domain.ToolFilters{Status: domain.ToolStatusActive}
	switch role {
	case domain.RoleAdmin, domain.RoleWorkspace:
		// full catalog, active only
	case domain.RoleSchool:
		f.AllowedRole = domain.RoleSchool
		f.AnyCourse = enrolledCourses
	case domain.RoleClient:
		f.ToolIDs = assignedToolIDs
		if len(f.ToolIDs) == 0 {
			f.MatchNone = true
		}
	case domain.RoleBeta:
		f.AllowedRole = domain.RoleBeta
	case domain.RoleFree:
		f.AllowedRole = domain.RoleFree
	default:
		f.MatchNone = true // fail closed
	}
	return f
}

func (s *toolService) ListToolsForUser(ctx context.Context, userID string, role domain.UserRole, params dto.ListToolsParams) (*domain.Page[domain.Tool], error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s for tool listing: %w", userID, err)
	}

	visibility := BuildVisibilityFilter(role, user.AssignedToolIDs, user.EnrolledCourses)

	filters := params.ToFilters()
	filters.Status = visibility.Status
	filters.AllowedRole = visibility.AllowedRole
	filters.ToolIDs = visibility.ToolIDs
	filters.AnyCourse = visibility.AnyCourse
	filters.MatchNone = visibility.MatchNone

	opts := params.ToListOptions()
	if filters.MatchNone {
		return &domain.Page[domain.Tool]{Items: []domain.Tool{}, Meta: domain.NewPageMeta(opts, 0)}, nil
	}

	tools, total, err := s.toolRepo.FindTools(ctx, filters, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools for user %s: %w", userID, err)
	}
	return &domain.Page[domain.Tool]{Items: tools, Meta: domain.NewPageMeta(opts, total)}, nil
}

func (s *toolService) CreateTool(ctx context.Context, req dto.CreateToolRequest, creatorUserID string) (*domain.Tool, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("category %s: %w", req.CategoryID, apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	section, err := s.sectionRepo.FindSectionByID(ctx, req.SectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("section %s: %w", req.SectionID, apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to check section: %w", err)
	}
	if !category.IsActive || !section.IsActive {
		return nil, fmt.Errorf("tool parents must be active: %w", apperrors.ErrValidation)
	}

	roles := make([]domain.UserRole, len(req.AllowedRoles))
	for i, r := range req.AllowedRoles {
		roles[i] = domain.UserRole(r)
	}

	status := domain.ToolStatus(req.Status)
	if status == "" {
		status = domain.ToolStatusActive
	}

	now := time.Now()
	tool := domain.Tool{
		ToolID:           uuid.NewString(),
		Name:             req.Name,
		Slug:             utils.Slugify(req.Name),
		Description:      req.Description,
		LongDescription:  req.LongDescription,
		CategoryID:       req.CategoryID,
		SectionID:        req.SectionID,
		Type:             domain.ToolType(req.Type),
		Tags:             req.Tags,
		AccessURL:        req.AccessURL,
		AccessType:       domain.AccessType(req.AccessType),
		Icon:             req.Icon,
		Status:           status,
		Version:          req.Version,
		AllowedRoles:     roles,
		RelatedCourses:   req.RelatedCourses,
		RequiresApproval: req.RequiresApproval,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
			UpdatedAt: now,
			UpdatedBy: creatorUserID,
		},
	}

	// SaveTool increments both parent toolCounts in the same unit of work.
	if err := s.toolRepo.SaveTool(ctx, tool); err != nil {
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "tools",
		Action:      "TOOL_CREATED",
		Description: fmt.Sprintf("Tool %q created", tool.Name),
		ActorID:     creatorUserID,
		TargetType:  "tool",
		TargetID:    tool.ToolID,
		TargetName:  tool.Name,
	})

	return &tool, nil
}

func (s *toolService) UpdateTool(ctx context.Context, toolID string, req dto.UpdateToolRequest, updaterUserID string) (*domain.Tool, error) {
	tool, err := s.toolRepo.FindToolByID(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tool %s for update: %w", toolID, err)
	}

	prevCategoryID, prevSectionID := tool.CategoryID, tool.SectionID

	if req.Name != nil {
		tool.Name = *req.Name
		tool.Slug = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		tool.Description = *req.Description
	}
	if req.LongDescription != nil {
		tool.LongDescription = *req.LongDescription
	}
	if req.CategoryID != nil && *req.CategoryID != tool.CategoryID {
		category, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", *req.CategoryID, apperrors.ErrValidation)
		}
		if !category.IsActive {
			return nil, fmt.Errorf("category %s is not active: %w", *req.CategoryID, apperrors.ErrValidation)
		}
		tool.CategoryID = *req.CategoryID
	}
	if req.SectionID != nil && *req.SectionID != tool.SectionID {
		section, err := s.sectionRepo.FindSectionByID(ctx, *req.SectionID)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", *req.SectionID, apperrors.ErrValidation)
		}
		if !section.IsActive {
			return nil, fmt.Errorf("section %s is not active: %w", *req.SectionID, apperrors.ErrValidation)
		}
		tool.SectionID = *req.SectionID
	}
	if req.Type != nil {
		tool.Type = domain.ToolType(*req.Type)
	}
	if req.Tags != nil {
		tool.Tags = *req.Tags
	}
	if req.AccessURL != nil {
		tool.AccessURL = *req.AccessURL
	}
	if req.AccessType != nil {
		tool.AccessType = domain.AccessType(*req.AccessType)
	}
	if req.Icon != nil {
		tool.Icon = *req.Icon
	}
	if req.Status != nil {
		tool.Status = domain.ToolStatus(*req.Status)
	}
	if req.Version != nil {
		tool.Version = *req.Version
	}
	if req.AllowedRoles != nil {
		roles := make([]domain.UserRole, len(*req.AllowedRoles))
		for i, r := range *req.AllowedRoles {
			roles[i] = domain.UserRole(r)
		}
		tool.AllowedRoles = roles
	}
	if req.RelatedCourses != nil {
		tool.RelatedCourses = *req.RelatedCourses
	}
	if req.RequiresApproval != nil {
		tool.RequiresApproval = *req.RequiresApproval
	}
	tool.UpdatedAt = time.Now()
	tool.UpdatedBy = updaterUserID

	// Moving a tool between parents adjusts both toolCounts symmetrically
	// inside the adapter's unit of work.
	if err := s.toolRepo.UpdateTool(ctx, *tool, prevCategoryID, prevSectionID); err != nil {
		return nil, fmt.Errorf("failed to update tool %s: %w", toolID, err)
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "tools",
		Action:      "TOOL_UPDATED",
		Description: fmt.Sprintf("Tool %q updated", tool.Name),
		ActorID:     updaterUserID,
		TargetType:  "tool",
		TargetID:    tool.ToolID,
		TargetName:  tool.Name,
	})

	return tool, nil
}

func (s *toolService) DeleteTool(ctx context.Context, toolID string, deleterUserID string) error {
	tool, err := s.toolRepo.FindToolByID(ctx, toolID)
	if err != nil {
		return fmt.Errorf("failed to find tool %s for delete: %w", toolID, err)
	}

	// DeleteTool decrements both parent toolCounts in the same unit of work.
	if err := s.toolRepo.DeleteTool(ctx, toolID); err != nil {
		return fmt.Errorf("failed to delete tool %s: %w", toolID, err)
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "tools",
		Action:      "TOOL_DELETED",
		Description: fmt.Sprintf("Tool %q deleted", tool.Name),
		ActorID:     deleterUserID,
		TargetType:  "tool",
		TargetID:    toolID,
		TargetName:  tool.Name,
	})

	return nil
}

func (s *toolService) RecordAccess(ctx context.Context, toolID string, userID string, req dto.RecordAccessRequest) error {
	tool, err := s.toolRepo.FindToolByID(ctx, toolID)
	if err != nil {
		return fmt.Errorf("failed to find tool %s for access recording: %w", toolID, err)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user %s for access recording: %w", userID, err)
	}

	action := domain.AccessAction(req.Action)
	if action == "" {
		action = domain.AccessActionAccess
	}
	success := true
	if req.Success != nil {
		success = *req.Success
	}

	now := time.Now()
	entry := domain.AccessLog{
		LogID:        uuid.NewString(),
		UserID:       user.UserID,
		UserEmail:    user.Email,
		UserName:     user.DisplayName,
		UserRole:     user.Role,
		ToolID:       tool.ToolID,
		ToolName:     tool.Name,
		Action:       action,
		Success:      success,
		ErrorCode:    req.ErrorCode,
		ErrorMessage: req.ErrorMessage,
		ResponseTime: req.ResponseTime,
		Timestamp:    now,
	}
	if err := s.accessLogRepo.SaveAccessLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to append access log: %w", err)
	}

	if err := s.toolRepo.RecordAccess(ctx, toolID, now); err != nil {
		return fmt.Errorf("failed to bump tool access stats: %w", err)
	}
	return nil
}
