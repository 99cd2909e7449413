package dto

import (
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// ListAccessLogsParams defines query parameters for listing access logs.
// StartAfter is an opaque cursor honored only when the storage backend
// supports cursor continuation; it is mutually exclusive with page.
type ListAccessLogsParams struct {
	PaginationParams
	UserID     string `form:"userId"`
	ToolID     string `form:"toolId"`
	Action     string `form:"action"`
	Success    *bool  `form:"success"`
	Role       string `form:"role" binding:"omitempty,userrole"`
	DateFrom   string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	StartAfter string `form:"startAfter"`
}

// ToFilters converts the query parameters to domain filters.
func (p ListAccessLogsParams) ToFilters() domain.AccessLogFilters {
	return domain.AccessLogFilters{
		UserID:   p.UserID,
		ToolID:   p.ToolID,
		Action:   domain.AccessAction(p.Action),
		Success:  p.Success,
		UserRole: domain.UserRole(p.Role),
		DateFrom: parseDate(p.DateFrom),
		DateTo:   parseDate(p.DateTo),
	}
}

// ListSystemLogsParams defines query parameters for listing audit logs.
type ListSystemLogsParams struct {
	PaginationParams
	Type       string `form:"type"`
	Category   string `form:"category"`
	ActorID    string `form:"actorId"`
	TargetID   string `form:"targetId"`
	Action     string `form:"action"`
	DateFrom   string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	StartAfter string `form:"startAfter"`
}

// ToFilters converts the query parameters to domain filters.
func (p ListSystemLogsParams) ToFilters() domain.SystemLogFilters {
	return domain.SystemLogFilters{
		Type:     domain.SystemLogType(p.Type),
		Category: p.Category,
		ActorID:  p.ActorID,
		TargetID: p.TargetID,
		Action:   p.Action,
		DateFrom: parseDate(p.DateFrom),
		DateTo:   parseDate(p.DateTo),
	}
}

// CreateErrorLogRequest reports a new platform error.
type CreateErrorLogRequest struct {
	Type     string `json:"type" binding:"required"`
	Severity string `json:"severity" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Stack    string `json:"stack"`
	UserID   string `json:"userID"`
	ToolID   string `json:"toolID"`
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
}

// UpdateErrorStatusRequest moves an error log through its lifecycle.
type UpdateErrorStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AssignedTo string `json:"assignedTo"`
	Resolution string `json:"resolution"`
}

// ListErrorLogsParams defines query parameters for listing error logs.
type ListErrorLogsParams struct {
	PaginationParams
	Type     string `form:"type"`
	Severity string `form:"severity"`
	Status   string `form:"status"`
	ToolID   string `form:"toolId"`
	DateFrom string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilters converts the query parameters to domain filters.
func (p ListErrorLogsParams) ToFilters() domain.ErrorLogFilters {
	return domain.ErrorLogFilters{
		Type:     domain.ErrorType(p.Type),
		Severity: domain.ErrorSeverity(p.Severity),
		Status:   domain.ErrorStatus(p.Status),
		ToolID:   p.ToolID,
		DateFrom: parseDate(p.DateFrom),
		DateTo:   parseDate(p.DateTo),
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil // format already validated by binding
	}
	return &t
}
