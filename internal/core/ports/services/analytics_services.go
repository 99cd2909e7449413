package services

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// AnalyticsSvcFacade computes on-demand aggregations; nothing is persisted.
type AnalyticsSvcFacade interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	GetToolAnalytics(ctx context.Context, toolID string, period domain.AnalyticsPeriod) (*domain.ToolAnalytics, error)
	GetUserAnalytics(ctx context.Context, userID string) (*domain.UserAnalytics, error)
}
