package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/handlers"
	"github.com/apphgio/tools_platform_app/internal/middleware"
	"github.com/apphgio/tools_platform_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ToolService ---
type MockToolService struct {
	mock.Mock
}

func (m *MockToolService) GetToolByID(ctx context.Context, toolID string) (*domain.Tool, error) {
	args := m.Called(ctx, toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockToolService) ListTools(ctx context.Context, params dto.ListToolsParams) (*domain.Page[domain.Tool], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.Tool]), args.Error(1)
}

func (m *MockToolService) ListToolsForUser(ctx context.Context, userID string, role domain.UserRole, params dto.ListToolsParams) (*domain.Page[domain.Tool], error) {
	args := m.Called(ctx, userID, role, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.Tool]), args.Error(1)
}

func (m *MockToolService) CreateTool(ctx context.Context, req dto.CreateToolRequest, creatorUserID string) (*domain.Tool, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockToolService) UpdateTool(ctx context.Context, toolID string, req dto.UpdateToolRequest, updaterUserID string) (*domain.Tool, error) {
	args := m.Called(ctx, toolID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockToolService) DeleteTool(ctx context.Context, toolID string, deleterUserID string) error {
	args := m.Called(ctx, toolID, deleterUserID)
	return args.Error(0)
}

func (m *MockToolService) RecordAccess(ctx context.Context, toolID string, userID string, req dto.RecordAccessRequest) error {
	args := m.Called(ctx, toolID, userID, req)
	return args.Error(0)
}

var _ portssvc.ToolSvcFacade = (*MockToolService)(nil)

// --- Mock AuthService (only Validate matters for guarded routes) ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) LoginWithProvider(ctx context.Context, idToken string, clientIP string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, idToken, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string, refreshToken string) error {
	args := m.Called(ctx, userID, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) Validate(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Test Suite ---
type ToolHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockToolService *MockToolService
	mockAuthService *MockAuthService
	jwtSecret       string
}

func (suite *ToolHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockToolService = new(MockToolService)
	suite.mockAuthService = new(MockAuthService)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, suite.mockAuthService))
	handlers.RegisterToolRoutes(v1, suite.mockToolService)
}

// generateTestToken signs a short-lived access token for the given identity.
func (suite *ToolHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateAccessJWT(userID, "tester@example.com", string(role), suite.jwtSecret, time.Hour, "atp-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// expectValidate makes the auth service accept the user as a live account.
func (suite *ToolHandlerTestSuite) expectValidate(userID string, role domain.UserRole) {
	suite.mockAuthService.On("Validate", mock.Anything, userID).Return(&domain.User{
		UserID: userID,
		Role:   role,
		Status: domain.UserStatusActive,
	}, nil).Once()
}

func (suite *ToolHandlerTestSuite) TestListToolsFiltersByRole() {
	userID := "user-free-1"
	suite.expectValidate(userID, domain.RoleFree)

	expected := &domain.Page[domain.Tool]{
		Items: []domain.Tool{
			{ToolID: "tool-1", Name: "Report Builder", Slug: "report-builder", Status: domain.ToolStatusActive},
		},
		Meta: domain.PageMeta{Page: 1, Limit: 20, Total: 1, TotalPages: 1},
	}
	suite.mockToolService.On("ListToolsForUser",
		mock.Anything, userID, domain.RoleFree,
		mock.MatchedBy(func(p dto.ListToolsParams) bool { return p.Page == 1 && p.Limit == 20 }),
	).Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleFree))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.PaginatedResponse[dto.ToolResponse]
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Items, 1)
	suite.Equal("tool-1", body.Items[0].ID)
	suite.Equal(int64(1), body.Meta.Total)

	suite.mockToolService.AssertExpectations(suite.T())
	suite.mockToolService.AssertNotCalled(suite.T(), "ListTools")
}

func (suite *ToolHandlerTestSuite) TestListToolsAdminBypassesVisibility() {
	userID := "user-admin-1"
	suite.expectValidate(userID, domain.RoleAdmin)

	expected := &domain.Page[domain.Tool]{
		Items: []domain.Tool{},
		Meta:  domain.PageMeta{Page: 1, Limit: 20},
	}
	suite.mockToolService.On("ListTools", mock.Anything, mock.AnythingOfType("dto.ListToolsParams")).
		Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tools?status=maintenance", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleAdmin))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockToolService.AssertExpectations(suite.T())
	suite.mockToolService.AssertNotCalled(suite.T(), "ListToolsForUser")
}

func (suite *ToolHandlerTestSuite) TestCreateToolForbiddenForNonAdmin() {
	userID := "user-free-2"
	suite.expectValidate(userID, domain.RoleFree)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/tools", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleFree))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockToolService.AssertNotCalled(suite.T(), "CreateTool")
}

func (suite *ToolHandlerTestSuite) TestListToolsWithoutTokenUnauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAuthService.AssertNotCalled(suite.T(), "Validate")
}

func (suite *ToolHandlerTestSuite) TestListToolsRejectsDeactivatedAccount() {
	userID := "user-gone"
	suite.mockAuthService.On("Validate", mock.Anything, userID).
		Return(nil, apperrors.ErrUnauthorized).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleFree))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockToolService.AssertNotCalled(suite.T(), "ListToolsForUser")
}

func (suite *ToolHandlerTestSuite) TestRecordAccessReturnsNoContent() {
	userID := "user-client-1"
	suite.expectValidate(userID, domain.RoleClient)

	suite.mockToolService.On("RecordAccess", mock.Anything, "tool-9", userID,
		mock.AnythingOfType("dto.RecordAccessRequest")).Return(nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/tools/tool-9/access", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleClient))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockToolService.AssertExpectations(suite.T())
}

func TestToolHandler(t *testing.T) {
	suite.Run(t, new(ToolHandlerTestSuite))
}
