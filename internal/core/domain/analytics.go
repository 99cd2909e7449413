package domain

import "time"

// ToolAccessCount is one row of a "top tools" ranking.
type ToolAccessCount struct {
	ToolID   string `json:"toolID"`
	ToolName string `json:"toolName"`
	Count    int64  `json:"count"`
}

// DashboardStats is the admin dashboard summary, computed on demand.
type DashboardStats struct {
	TotalUsers   int64              `json:"totalUsers"`
	ActiveTools  int64              `json:"activeTools"`
	ActiveErrors int64              `json:"activeErrors"` // not resolved/ignored
	TodayAccess  int64              `json:"todayAccess"`  // trailing 24h
	UsersByRole  map[UserRole]int64 `json:"usersByRole"`
	TopTools     []ToolAccessCount  `json:"topTools"`
}

// AnalyticsPeriod selects the trailing window for per-tool stats.
type AnalyticsPeriod string

const (
	PeriodDaily   AnalyticsPeriod = "daily"
	PeriodWeekly  AnalyticsPeriod = "weekly"
	PeriodMonthly AnalyticsPeriod = "monthly"
)

// Window returns the trailing duration the period covers. Labels map to
// their literal lengths; anything unrecognized falls back to monthly.
func (p AnalyticsPeriod) Window() time.Duration {
	switch p {
	case PeriodDaily:
		return 24 * time.Hour
	case PeriodWeekly:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// ToolAnalytics holds grouped access counts for one tool over a window.
type ToolAnalytics struct {
	ToolID          string                 `json:"toolID"`
	Period          AnalyticsPeriod        `json:"period"`
	Metrics         map[AccessAction]int64 `json:"metrics"`
	AvgResponseTime string                 `json:"avgResponseTime"` // milliseconds, decimal string
}

// UserAnalytics holds the per-user usage summary.
type UserAnalytics struct {
	UserID      string            `json:"userID"`
	TotalAccess int64             `json:"totalAccess"`
	TopTools    []ToolAccessCount `json:"topTools"`
}

// UserStats summarizes the user base for the admin panel.
type UserStats struct {
	Total       int64                `json:"total"`
	ByRole      map[UserRole]int64   `json:"byRole"`
	ByStatus    map[UserStatus]int64 `json:"byStatus"`
	RecentUsers []User               `json:"recentUsers"`
}
