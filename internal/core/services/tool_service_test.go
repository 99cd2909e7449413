package services_test

import (
	"context"
	"testing"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/core/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func TestBuildVisibilityFilter(t *testing.T) {
	tests := []struct {
		name     string
		role     domain.UserRole
		assigned []string
		courses  []string
		check    func(t *testing.T, f domain.ToolFilters)
	}{
		{
			name: "admin sees full active catalog",
			role: domain.RoleAdmin,
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.Equal(t, domain.ToolStatusActive, f.Status)
				assert.Empty(t, f.AllowedRole)
				assert.Empty(t, f.ToolIDs)
				assert.False(t, f.MatchNone)
			},
		},
		{
			name: "workspace sees full active catalog",
			role: domain.RoleWorkspace,
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.Empty(t, f.AllowedRole)
				assert.False(t, f.MatchNone)
			},
		},
		{
			name:    "school matches role or enrolled courses",
			role:    domain.RoleSchool,
			courses: []string{"course-1", "course-2"},
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.Equal(t, domain.RoleSchool, f.AllowedRole)
				assert.Equal(t, []string{"course-1", "course-2"}, f.AnyCourse)
				assert.False(t, f.MatchNone)
			},
		},
		{
			name:     "client restricted to assigned set",
			role:     domain.RoleClient,
			assigned: []string{"tool-a", "tool-b"},
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.Equal(t, []string{"tool-a", "tool-b"}, f.ToolIDs)
				assert.False(t, f.MatchNone)
			},
		},
		{
			name: "client with no assignments matches nothing",
			role: domain.RoleClient,
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.True(t, f.MatchNone)
			},
		},
		{
			name: "beta matches allowed role only",
			role: domain.RoleBeta,
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.Equal(t, domain.RoleBeta, f.AllowedRole)
			},
		},
		{
			name: "free matches allowed role only",
			role: domain.RoleFree,
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.Equal(t, domain.RoleFree, f.AllowedRole)
			},
		},
		{
			name: "unknown role fails closed",
			role: domain.UserRole("superuser"),
			check: func(t *testing.T, f domain.ToolFilters) {
				assert.True(t, f.MatchNone)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := services.BuildVisibilityFilter(tt.role, tt.assigned, tt.courses)
			// Every non-admin branch pins status to active as well.
			assert.Equal(t, domain.ToolStatusActive, f.Status)
			tt.check(t, f)
		})
	}
}

type ToolServiceTestSuite struct {
	suite.Suite
	mockToolRepo      *MockToolRepository
	mockCategoryRepo  *MockCategoryRepository
	mockSectionRepo   *MockSectionRepository
	mockUserRepo      *MockUserRepository
	mockAccessLogRepo *MockAccessLogRepository
	mockAudit         *MockAuditService
	service           portssvc.ToolSvcFacade
}

func (s *ToolServiceTestSuite) SetupTest() {
	s.mockToolRepo = new(MockToolRepository)
	s.mockCategoryRepo = new(MockCategoryRepository)
	s.mockSectionRepo = new(MockSectionRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.mockAccessLogRepo = new(MockAccessLogRepository)
	s.mockAudit = new(MockAuditService)
	s.service = services.NewToolService(
		s.mockToolRepo, s.mockCategoryRepo, s.mockSectionRepo,
		s.mockUserRepo, s.mockAccessLogRepo, s.mockAudit,
	)
}

func TestToolServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ToolServiceTestSuite))
}

func (s *ToolServiceTestSuite) TestListToolsForUserAppliesVisibility() {
	ctx := context.Background()
	user := &domain.User{
		UserID: "user-1",
		Role:   domain.RoleFree,
		Status: domain.UserStatusActive,
	}

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(user, nil).Once()
	s.mockToolRepo.On("FindTools", ctx, mock.MatchedBy(func(f domain.ToolFilters) bool {
		return f.Status == domain.ToolStatusActive && f.AllowedRole == domain.RoleFree
	}), mock.AnythingOfType("domain.ListOptions")).Return([]domain.Tool{{ToolID: "tool-x"}}, int64(1), nil).Once()

	page, err := s.service.ListToolsForUser(ctx, "user-1", domain.RoleFree, dto.ListToolsParams{})

	s.Require().NoError(err)
	s.Len(page.Items, 1)
	s.Equal(int64(1), page.Meta.Total)
	s.mockToolRepo.AssertExpectations(s.T())
}

func (s *ToolServiceTestSuite) TestListToolsForUserMatchNoneShortCircuits() {
	ctx := context.Background()
	// Client role with no assigned tools: the storage layer is never asked.
	user := &domain.User{UserID: "user-2", Role: domain.RoleClient, Status: domain.UserStatusActive}

	s.mockUserRepo.On("FindUserByID", ctx, "user-2").Return(user, nil).Once()

	page, err := s.service.ListToolsForUser(ctx, "user-2", domain.RoleClient, dto.ListToolsParams{})

	s.Require().NoError(err)
	s.Empty(page.Items)
	s.Equal(int64(0), page.Meta.Total)
	s.mockToolRepo.AssertNotCalled(s.T(), "FindTools")
}

func (s *ToolServiceTestSuite) TestCreateToolDerivesSlugAndAudits() {
	ctx := context.Background()

	s.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-1").
		Return(&domain.Category{CategoryID: "cat-1", IsActive: true}, nil).Once()
	s.mockSectionRepo.On("FindSectionByID", ctx, "sec-1").
		Return(&domain.Section{SectionID: "sec-1", IsActive: true}, nil).Once()
	s.mockToolRepo.On("SaveTool", ctx, mock.MatchedBy(func(t domain.Tool) bool {
		return t.Slug == "generador-de-reportes" && t.Status == domain.ToolStatusActive && t.ToolID != ""
	})).Return(nil).Once()

	tool, err := s.service.CreateTool(ctx, dto.CreateToolRequest{
		Name:         "Generador de Reportes!",
		Description:  "Reporting",
		CategoryID:   "cat-1",
		SectionID:    "sec-1",
		Type:         "internal",
		AccessURL:    "https://tools.example.com/reports",
		AccessType:   "direct",
		AllowedRoles: []string{"free"},
	}, "admin-1")

	s.Require().NoError(err)
	s.Equal("generador-de-reportes", tool.Slug)
	s.True(s.mockAudit.hasAuditAction("TOOL_CREATED"))
	s.mockToolRepo.AssertExpectations(s.T())
}

func (s *ToolServiceTestSuite) TestCreateToolRejectsInactiveParent() {
	ctx := context.Background()

	s.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-1").
		Return(&domain.Category{CategoryID: "cat-1", IsActive: false}, nil).Once()
	s.mockSectionRepo.On("FindSectionByID", ctx, "sec-1").
		Return(&domain.Section{SectionID: "sec-1", IsActive: true}, nil).Once()

	tool, err := s.service.CreateTool(ctx, dto.CreateToolRequest{
		Name:       "Tool",
		CategoryID: "cat-1",
		SectionID:  "sec-1",
	}, "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(tool)
	s.mockToolRepo.AssertNotCalled(s.T(), "SaveTool")
}

func (s *ToolServiceTestSuite) TestUpdateToolMovePassesPreviousParents() {
	ctx := context.Background()
	existing := &domain.Tool{
		ToolID:     "tool-1",
		Name:       "Tool",
		CategoryID: "cat-old",
		SectionID:  "sec-1",
		Status:     domain.ToolStatusActive,
	}
	newCategory := "cat-new"

	s.mockToolRepo.On("FindToolByID", ctx, "tool-1").Return(existing, nil).Once()
	s.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-new").
		Return(&domain.Category{CategoryID: "cat-new", IsActive: true}, nil).Once()
	// The previous parents ride along so the adapter can adjust both
	// toolCounts in one unit of work.
	s.mockToolRepo.On("UpdateTool", ctx, mock.MatchedBy(func(t domain.Tool) bool {
		return t.CategoryID == "cat-new"
	}), "cat-old", "sec-1").Return(nil).Once()

	tool, err := s.service.UpdateTool(ctx, "tool-1", dto.UpdateToolRequest{CategoryID: &newCategory}, "admin-1")

	s.Require().NoError(err)
	s.Equal("cat-new", tool.CategoryID)
	s.True(s.mockAudit.hasAuditAction("TOOL_UPDATED"))
	s.mockToolRepo.AssertExpectations(s.T())
}

func (s *ToolServiceTestSuite) TestDeleteToolAudits() {
	ctx := context.Background()
	tool := &domain.Tool{ToolID: "tool-1", Name: "Old Tool"}

	s.mockToolRepo.On("FindToolByID", ctx, "tool-1").Return(tool, nil).Once()
	s.mockToolRepo.On("DeleteTool", ctx, "tool-1").Return(nil).Once()

	err := s.service.DeleteTool(ctx, "tool-1", "admin-1")

	s.Require().NoError(err)
	s.True(s.mockAudit.hasAuditAction("TOOL_DELETED"))
	s.mockToolRepo.AssertExpectations(s.T())
}
