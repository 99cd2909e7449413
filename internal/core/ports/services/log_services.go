package services

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	"github.com/apphgio/tools_platform_app/internal/dto"
)

// AuditSvcFacade manages the three log kinds. System and access logs are
// append-only; error logs walk a managed status lifecycle.
type AuditSvcFacade interface {
	// RecordSystemLog writes an audit entry best-effort: failures are
	// logged, never surfaced to the caller.
	RecordSystemLog(ctx context.Context, entry domain.SystemLog)

	ListAccessLogs(ctx context.Context, params dto.ListAccessLogsParams) (*domain.Page[domain.AccessLog], error)
	ListSystemLogs(ctx context.Context, params dto.ListSystemLogsParams) (*domain.Page[domain.SystemLog], error)

	CreateErrorLog(ctx context.Context, req dto.CreateErrorLogRequest) (*domain.ErrorLog, error)
	ListErrorLogs(ctx context.Context, params dto.ListErrorLogsParams) (*domain.Page[domain.ErrorLog], error)
	// UpdateErrorLogStatus applies a lifecycle transition; illegal moves
	// fail with ErrValidation.
	UpdateErrorLogStatus(ctx context.Context, logID string, req dto.UpdateErrorStatusRequest, actorUserID string) (*domain.ErrorLog, error)
}
