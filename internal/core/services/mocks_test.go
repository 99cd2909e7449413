package services_test

import (
	"context"
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, filters domain.UserFilters, opts domain.ListOptions) ([]domain.User, int64, error) {
	args := m.Called(ctx, filters, opts)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountUsersByRole(ctx context.Context) (map[domain.UserRole]int64, error) {
	args := m.Called(ctx)
	var counts map[domain.UserRole]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[domain.UserRole]int64)
	}
	return counts, args.Error(1)
}

func (m *MockUserRepository) CountUsersByStatus(ctx context.Context) (map[domain.UserStatus]int64, error) {
	args := m.Called(ctx)
	var counts map[domain.UserStatus]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[domain.UserStatus]int64)
	}
	return counts, args.Error(1)
}

func (m *MockUserRepository) FindRecentUsers(ctx context.Context, limit int) ([]domain.User, error) {
	args := m.Called(ctx, limit)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) AssignTools(ctx context.Context, userID string, toolIDs []string, updatedBy string) error {
	args := m.Called(ctx, userID, toolIDs, updatedBy)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

// --- Mock ToolRepository ---

type MockToolRepository struct {
	mock.Mock
}

func (m *MockToolRepository) FindToolByID(ctx context.Context, toolID string) (*domain.Tool, error) {
	args := m.Called(ctx, toolID)
	var tool *domain.Tool
	if args.Get(0) != nil {
		tool = args.Get(0).(*domain.Tool)
	}
	return tool, args.Error(1)
}

func (m *MockToolRepository) FindToolBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	args := m.Called(ctx, slug)
	var tool *domain.Tool
	if args.Get(0) != nil {
		tool = args.Get(0).(*domain.Tool)
	}
	return tool, args.Error(1)
}

func (m *MockToolRepository) FindTools(ctx context.Context, filters domain.ToolFilters, opts domain.ListOptions) ([]domain.Tool, int64, error) {
	args := m.Called(ctx, filters, opts)
	var tools []domain.Tool
	if args.Get(0) != nil {
		tools = args.Get(0).([]domain.Tool)
	}
	return tools, args.Get(1).(int64), args.Error(2)
}

func (m *MockToolRepository) CountActiveTools(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockToolRepository) FindTopTools(ctx context.Context, limit int) ([]domain.ToolAccessCount, error) {
	args := m.Called(ctx, limit)
	var top []domain.ToolAccessCount
	if args.Get(0) != nil {
		top = args.Get(0).([]domain.ToolAccessCount)
	}
	return top, args.Error(1)
}

func (m *MockToolRepository) SaveTool(ctx context.Context, tool domain.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}

func (m *MockToolRepository) UpdateTool(ctx context.Context, tool domain.Tool, prevCategoryID, prevSectionID string) error {
	args := m.Called(ctx, tool, prevCategoryID, prevSectionID)
	return args.Error(0)
}

func (m *MockToolRepository) DeleteTool(ctx context.Context, toolID string) error {
	args := m.Called(ctx, toolID)
	return args.Error(0)
}

func (m *MockToolRepository) RecordAccess(ctx context.Context, toolID string, at time.Time) error {
	args := m.Called(ctx, toolID, at)
	return args.Error(0)
}

var _ portsrepo.ToolRepositoryFacade = (*MockToolRepository)(nil)

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) FindCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	args := m.Called(ctx, activeOnly)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

// --- Mock SectionRepository ---

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) FindSectionByID(ctx context.Context, sectionID string) (*domain.Section, error) {
	args := m.Called(ctx, sectionID)
	var section *domain.Section
	if args.Get(0) != nil {
		section = args.Get(0).(*domain.Section)
	}
	return section, args.Error(1)
}

func (m *MockSectionRepository) FindSections(ctx context.Context, activeOnly bool) ([]domain.Section, error) {
	args := m.Called(ctx, activeOnly)
	var sections []domain.Section
	if args.Get(0) != nil {
		sections = args.Get(0).([]domain.Section)
	}
	return sections, args.Error(1)
}

func (m *MockSectionRepository) SaveSection(ctx context.Context, section domain.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) UpdateSection(ctx context.Context, section domain.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) DeleteSection(ctx context.Context, sectionID string) error {
	args := m.Called(ctx, sectionID)
	return args.Error(0)
}

var _ portsrepo.SectionRepositoryFacade = (*MockSectionRepository)(nil)

// --- Mock AccessLogRepository ---

type MockAccessLogRepository struct {
	mock.Mock
	cursorSupport bool
}

func (m *MockAccessLogRepository) SaveAccessLog(ctx context.Context, log domain.AccessLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAccessLogRepository) FindAccessLogs(ctx context.Context, filters domain.AccessLogFilters, opts domain.ListOptions) (domain.Page[domain.AccessLog], error) {
	args := m.Called(ctx, filters, opts)
	return args.Get(0).(domain.Page[domain.AccessLog]), args.Error(1)
}

func (m *MockAccessLogRepository) CountAccessSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessLogRepository) CountAccessByAction(ctx context.Context, toolID string, since time.Time) (map[domain.AccessAction]int64, error) {
	args := m.Called(ctx, toolID, since)
	var counts map[domain.AccessAction]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[domain.AccessAction]int64)
	}
	return counts, args.Error(1)
}

func (m *MockAccessLogRepository) AvgResponseTime(ctx context.Context, toolID string, since time.Time) (float64, error) {
	args := m.Called(ctx, toolID, since)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAccessLogRepository) CountAccessByUser(ctx context.Context, userID string, topN int) (int64, []domain.ToolAccessCount, error) {
	args := m.Called(ctx, userID, topN)
	var top []domain.ToolAccessCount
	if args.Get(1) != nil {
		top = args.Get(1).([]domain.ToolAccessCount)
	}
	return args.Get(0).(int64), top, args.Error(2)
}

func (m *MockAccessLogRepository) SupportsCursor() bool {
	return m.cursorSupport
}

var _ portsrepo.AccessLogRepositoryFacade = (*MockAccessLogRepository)(nil)

// --- Mock ErrorLogRepository ---

type MockErrorLogRepository struct {
	mock.Mock
}

func (m *MockErrorLogRepository) SaveErrorLog(ctx context.Context, log domain.ErrorLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockErrorLogRepository) FindErrorLogByID(ctx context.Context, logID string) (*domain.ErrorLog, error) {
	args := m.Called(ctx, logID)
	var entry *domain.ErrorLog
	if args.Get(0) != nil {
		entry = args.Get(0).(*domain.ErrorLog)
	}
	return entry, args.Error(1)
}

func (m *MockErrorLogRepository) FindErrorLogs(ctx context.Context, filters domain.ErrorLogFilters, opts domain.ListOptions) (domain.Page[domain.ErrorLog], error) {
	args := m.Called(ctx, filters, opts)
	return args.Get(0).(domain.Page[domain.ErrorLog]), args.Error(1)
}

func (m *MockErrorLogRepository) UpdateErrorLogStatus(ctx context.Context, log domain.ErrorLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockErrorLogRepository) CountUnresolvedErrors(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ portsrepo.ErrorLogRepositoryFacade = (*MockErrorLogRepository)(nil)

// --- Mock SystemLogRepository ---

type MockSystemLogRepository struct {
	mock.Mock
}

func (m *MockSystemLogRepository) SaveSystemLog(ctx context.Context, log domain.SystemLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSystemLogRepository) FindSystemLogs(ctx context.Context, filters domain.SystemLogFilters, opts domain.ListOptions) (domain.Page[domain.SystemLog], error) {
	args := m.Called(ctx, filters, opts)
	return args.Get(0).(domain.Page[domain.SystemLog]), args.Error(1)
}

var _ portsrepo.SystemLogRepositoryFacade = (*MockSystemLogRepository)(nil)

// --- Mock RefreshTokenRepository ---

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	var token *domain.RefreshToken
	if args.Get(0) != nil {
		token = args.Get(0).(*domain.RefreshToken)
	}
	return token, args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokensForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portsrepo.RefreshTokenRepositoryFacade = (*MockRefreshTokenRepository)(nil)

// --- Mock SettingsRepository ---

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindSettings(ctx context.Context) (domain.PlatformSettings, error) {
	args := m.Called(ctx)
	var settings domain.PlatformSettings
	if args.Get(0) != nil {
		settings = args.Get(0).(domain.PlatformSettings)
	}
	return settings, args.Error(1)
}

func (m *MockSettingsRepository) FindSettingsSection(ctx context.Context, section domain.SettingsSection) (map[string]any, error) {
	args := m.Called(ctx, section)
	var values map[string]any
	if args.Get(0) != nil {
		values = args.Get(0).(map[string]any)
	}
	return values, args.Error(1)
}

func (m *MockSettingsRepository) SaveSettingsSection(ctx context.Context, section domain.SettingsSection, values map[string]any) error {
	args := m.Called(ctx, section, values)
	return args.Error(0)
}

var _ portsrepo.SettingsRepositoryFacade = (*MockSettingsRepository)(nil)

// --- Mock AuditService ---

// MockAuditService records audit calls without asserting on them unless a
// test opts in via expectations.
type MockAuditService struct {
	mock.Mock
	Entries []domain.SystemLog
}

func (m *MockAuditService) RecordSystemLog(ctx context.Context, entry domain.SystemLog) {
	m.Entries = append(m.Entries, entry)
}

func (m *MockAuditService) ListAccessLogs(ctx context.Context, params dto.ListAccessLogsParams) (*domain.Page[domain.AccessLog], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.AccessLog]), args.Error(1)
}

func (m *MockAuditService) ListSystemLogs(ctx context.Context, params dto.ListSystemLogsParams) (*domain.Page[domain.SystemLog], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.SystemLog]), args.Error(1)
}

func (m *MockAuditService) CreateErrorLog(ctx context.Context, req dto.CreateErrorLogRequest) (*domain.ErrorLog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ErrorLog), args.Error(1)
}

func (m *MockAuditService) ListErrorLogs(ctx context.Context, params dto.ListErrorLogsParams) (*domain.Page[domain.ErrorLog], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.ErrorLog]), args.Error(1)
}

func (m *MockAuditService) UpdateErrorLogStatus(ctx context.Context, logID string, req dto.UpdateErrorStatusRequest, actorUserID string) (*domain.ErrorLog, error) {
	args := m.Called(ctx, logID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ErrorLog), args.Error(1)
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

// hasAuditAction reports whether an audit entry with the given action was recorded.
func (m *MockAuditService) hasAuditAction(action string) bool {
	for _, e := range m.Entries {
		if e.Action == action {
			return true
		}
	}
	return false
}
