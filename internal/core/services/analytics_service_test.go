package services_test

import (
	"context"
	"testing"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AnalyticsServiceTestSuite struct {
	suite.Suite
	mockUserRepo      *MockUserRepository
	mockToolRepo      *MockToolRepository
	mockAccessLogRepo *MockAccessLogRepository
	mockErrorLogRepo  *MockErrorLogRepository
	service           portssvc.AnalyticsSvcFacade
}

func (s *AnalyticsServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockToolRepo = new(MockToolRepository)
	s.mockAccessLogRepo = new(MockAccessLogRepository)
	s.mockErrorLogRepo = new(MockErrorLogRepository)
	s.service = services.NewAnalyticsService(
		s.mockUserRepo, s.mockToolRepo, s.mockAccessLogRepo, s.mockErrorLogRepo,
	)
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}

func (s *AnalyticsServiceTestSuite) TestUserAnalyticsRequestsTopTenTools() {
	ctx := context.Background()
	user := &domain.User{UserID: "user-1", Role: domain.RoleFree, Status: domain.UserStatusActive}

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(user, nil).Once()
	s.mockAccessLogRepo.On("CountAccessByUser", ctx, "user-1", 10).
		Return(int64(42), []domain.ToolAccessCount{{ToolID: "tool-1", Count: 42}}, nil).Once()

	stats, err := s.service.GetUserAnalytics(ctx, "user-1")

	s.Require().NoError(err)
	s.Equal(int64(42), stats.TotalAccess)
	s.Len(stats.TopTools, 1)
	s.mockAccessLogRepo.AssertExpectations(s.T())
}

func (s *AnalyticsServiceTestSuite) TestDashboardRanksTopFiveTools() {
	ctx := context.Background()

	s.mockUserRepo.On("CountUsersByRole", ctx).Return(map[domain.UserRole]int64{
		domain.RoleAdmin: 1,
		domain.RoleFree:  9,
	}, nil).Once()
	s.mockToolRepo.On("CountActiveTools", ctx).Return(int64(12), nil).Once()
	s.mockErrorLogRepo.On("CountUnresolvedErrors", ctx).Return(int64(3), nil).Once()
	s.mockAccessLogRepo.On("CountAccessSince", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(77), nil).Once()
	s.mockToolRepo.On("FindTopTools", ctx, 5).
		Return([]domain.ToolAccessCount{{ToolID: "tool-1", Count: 50}}, nil).Once()

	stats, err := s.service.GetDashboardStats(ctx)

	s.Require().NoError(err)
	s.Equal(int64(10), stats.TotalUsers)
	s.Equal(int64(12), stats.ActiveTools)
	s.Equal(int64(3), stats.ActiveErrors)
	s.Equal(int64(77), stats.TodayAccess)
	s.mockToolRepo.AssertExpectations(s.T())
}
