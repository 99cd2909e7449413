package services

import (
	"context"
	"fmt"
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	topToolsLimit     = 5  // dashboard top-tools widget
	userTopToolsLimit = 10 // per-user most-accessed tools
)

// analyticsService implements AnalyticsSvcFacade. Every figure is computed
// from stored logs at call time; nothing is cached or persisted.
type analyticsService struct {
	userRepo      portsrepo.UserRepositoryFacade
	toolRepo      portsrepo.ToolRepositoryFacade
	accessLogRepo portsrepo.AccessLogRepositoryFacade
	errorLogRepo  portsrepo.ErrorLogRepositoryFacade
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	userRepo portsrepo.UserRepositoryFacade,
	toolRepo portsrepo.ToolRepositoryFacade,
	accessLogRepo portsrepo.AccessLogRepositoryFacade,
	errorLogRepo portsrepo.ErrorLogRepositoryFacade,
) portssvc.AnalyticsSvcFacade {
	return &analyticsService{
		userRepo:      userRepo,
		toolRepo:      toolRepo,
		accessLogRepo: accessLogRepo,
		errorLogRepo:  errorLogRepo,
	}
}

var _ portssvc.AnalyticsSvcFacade = (*analyticsService)(nil)

func (s *analyticsService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	usersByRole, err := s.userRepo.CountUsersByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	var totalUsers int64
	for _, n := range usersByRole {
		totalUsers += n
	}

	activeTools, err := s.toolRepo.CountActiveTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active tools: %w", err)
	}
	activeErrors, err := s.errorLogRepo.CountUnresolvedErrors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count unresolved errors: %w", err)
	}
	todayAccess, err := s.accessLogRepo.CountAccessSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent access: %w", err)
	}
	topTools, err := s.toolRepo.FindTopTools(ctx, topToolsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank top tools: %w", err)
	}

	return &domain.DashboardStats{
		TotalUsers:   totalUsers,
		ActiveTools:  activeTools,
		ActiveErrors: activeErrors,
		TodayAccess:  todayAccess,
		UsersByRole:  usersByRole,
		TopTools:     topTools,
	}, nil
}

func (s *analyticsService) GetToolAnalytics(ctx context.Context, toolID string, period domain.AnalyticsPeriod) (*domain.ToolAnalytics, error) {
	if _, err := s.toolRepo.FindToolByID(ctx, toolID); err != nil {
		return nil, fmt.Errorf("failed to find tool %s for analytics: %w", toolID, err)
	}

	since := time.Now().Add(-period.Window())
	metrics, err := s.accessLogRepo.CountAccessByAction(ctx, toolID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to group tool access: %w", err)
	}
	avgMs, err := s.accessLogRepo.AvgResponseTime(ctx, toolID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to average response times: %w", err)
	}

	return &domain.ToolAnalytics{
		ToolID:          toolID,
		Period:          period,
		Metrics:         metrics,
		AvgResponseTime: decimal.NewFromFloat(avgMs).Round(2).String(),
	}, nil
}

func (s *analyticsService) GetUserAnalytics(ctx context.Context, userID string) (*domain.UserAnalytics, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to find user %s for analytics: %w", userID, err)
	}

	total, topTools, err := s.accessLogRepo.CountAccessByUser(ctx, userID, userTopToolsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize user access: %w", err)
	}
	return &domain.UserAnalytics{
		UserID:      userID,
		TotalAccess: total,
		TopTools:    topTools,
	}, nil
}
