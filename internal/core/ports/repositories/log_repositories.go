package repositories

import (
	"context"
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// AccessLogRepositoryFacade persists and queries the append-only access log.
type AccessLogRepositoryFacade interface {
	// SaveAccessLog appends one access record. Records are never updated.
	SaveAccessLog(ctx context.Context, log domain.AccessLog) error

	// FindAccessLogs retrieves one page of access logs, newest first, plus
	// the total match count. Adapters reporting cursor support honor
	// opts.StartAfter instead of opts.Page.
	FindAccessLogs(ctx context.Context, filters domain.AccessLogFilters, opts domain.ListOptions) (domain.Page[domain.AccessLog], error)

	// CountAccessSince counts accesses after the given instant.
	CountAccessSince(ctx context.Context, since time.Time) (int64, error)

	// CountAccessByAction groups a tool's access records by action within a window.
	CountAccessByAction(ctx context.Context, toolID string, since time.Time) (map[domain.AccessAction]int64, error)

	// AvgResponseTime averages the recorded response times for a tool within a window,
	// in milliseconds. Returns 0 with no error when no records match.
	AvgResponseTime(ctx context.Context, toolID string, since time.Time) (float64, error)

	// CountAccessByUser returns the user's total access count and their
	// most-accessed tools, highest first.
	CountAccessByUser(ctx context.Context, userID string, topN int) (int64, []domain.ToolAccessCount, error)

	// SupportsCursor reports whether FindAccessLogs honors StartAfter continuation.
	SupportsCursor() bool
}

// ErrorLogRepositoryFacade persists and queries managed error logs.
type ErrorLogRepositoryFacade interface {
	SaveErrorLog(ctx context.Context, log domain.ErrorLog) error
	FindErrorLogByID(ctx context.Context, logID string) (*domain.ErrorLog, error)
	FindErrorLogs(ctx context.Context, filters domain.ErrorLogFilters, opts domain.ListOptions) (domain.Page[domain.ErrorLog], error)
	// UpdateErrorLogStatus applies a lifecycle move; transition legality is
	// the service's concern, persistence is the repository's.
	UpdateErrorLogStatus(ctx context.Context, log domain.ErrorLog) error
	// CountUnresolvedErrors counts entries that are neither resolved nor ignored.
	CountUnresolvedErrors(ctx context.Context) (int64, error)
}

// SystemLogRepositoryFacade persists and queries the append-only audit log.
type SystemLogRepositoryFacade interface {
	SaveSystemLog(ctx context.Context, log domain.SystemLog) error
	FindSystemLogs(ctx context.Context, filters domain.SystemLogFilters, opts domain.ListOptions) (domain.Page[domain.SystemLog], error)
}
