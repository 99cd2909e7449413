package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/google/uuid"
)

// AuditEventPublisher mirrors audit entries to an external broker.
// Publishing is best-effort; a nil publisher disables it.
type AuditEventPublisher interface {
	PublishSystemLog(ctx context.Context, entry domain.SystemLog) error
}

// auditService implements AuditSvcFacade over the three log kinds.
type auditService struct {
	accessLogRepo portsrepo.AccessLogRepositoryFacade
	errorLogRepo  portsrepo.ErrorLogRepositoryFacade
	systemLogRepo portsrepo.SystemLogRepositoryFacade
	publisher     AuditEventPublisher
	logger        *slog.Logger
}

// NewAuditService creates a new audit service. publisher may be nil.
func NewAuditService(
	accessLogRepo portsrepo.AccessLogRepositoryFacade,
	errorLogRepo portsrepo.ErrorLogRepositoryFacade,
	systemLogRepo portsrepo.SystemLogRepositoryFacade,
	publisher AuditEventPublisher,
	logger *slog.Logger,
) portssvc.AuditSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditService{
		accessLogRepo: accessLogRepo,
		errorLogRepo:  errorLogRepo,
		systemLogRepo: systemLogRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// RecordSystemLog appends an audit entry. Persistence failures are logged
// and swallowed so audit writes never fail a business operation.
func (s *auditService) RecordSystemLog(ctx context.Context, entry domain.SystemLog) {
	if entry.LogID == "" {
		entry.LogID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Type == "" {
		entry.Type = domain.SystemLogInfo
	}

	if err := s.systemLogRepo.SaveSystemLog(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist audit entry",
			slog.String("action", entry.Action),
			slog.String("category", entry.Category),
			slog.String("error", err.Error()),
		)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSystemLog(ctx, entry); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish audit event",
				slog.String("action", entry.Action),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *auditService) ListAccessLogs(ctx context.Context, params dto.ListAccessLogsParams) (*domain.Page[domain.AccessLog], error) {
	opts := params.ToListOptions()
	// The cursor is only meaningful to backends that support continuation;
	// others page by offset and the cursor is dropped.
	if s.accessLogRepo.SupportsCursor() {
		opts.StartAfter = params.StartAfter
	}
	page, err := s.accessLogRepo.FindAccessLogs(ctx, params.ToFilters(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list access logs: %w", err)
	}
	return &page, nil
}

func (s *auditService) ListSystemLogs(ctx context.Context, params dto.ListSystemLogsParams) (*domain.Page[domain.SystemLog], error) {
	opts := params.ToListOptions()
	opts.StartAfter = params.StartAfter
	page, err := s.systemLogRepo.FindSystemLogs(ctx, params.ToFilters(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list system logs: %w", err)
	}
	return &page, nil
}

func (s *auditService) CreateErrorLog(ctx context.Context, req dto.CreateErrorLogRequest) (*domain.ErrorLog, error) {
	severity := domain.ErrorSeverity(req.Severity)
	switch severity {
	case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical:
	default:
		return nil, fmt.Errorf("invalid severity %q: %w", req.Severity, apperrors.ErrValidation)
	}

	errType := domain.ErrorType(req.Type)
	if errType == "" {
		errType = domain.ErrorTypeUnknown
	}

	entry := domain.ErrorLog{
		LogID:     uuid.NewString(),
		Type:      errType,
		Severity:  severity,
		UserID:    req.UserID,
		ToolID:    req.ToolID,
		Endpoint:  req.Endpoint,
		Method:    req.Method,
		Code:      req.Code,
		Message:   req.Message,
		Stack:     req.Stack,
		Status:    domain.ErrorStatusNew,
		Timestamp: time.Now(),
	}
	if err := s.errorLogRepo.SaveErrorLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create error log: %w", err)
	}
	return &entry, nil
}

func (s *auditService) ListErrorLogs(ctx context.Context, params dto.ListErrorLogsParams) (*domain.Page[domain.ErrorLog], error) {
	page, err := s.errorLogRepo.FindErrorLogs(ctx, params.ToFilters(), params.ToListOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to list error logs: %w", err)
	}
	return &page, nil
}

func (s *auditService) UpdateErrorLogStatus(ctx context.Context, logID string, req dto.UpdateErrorStatusRequest, actorUserID string) (*domain.ErrorLog, error) {
	entry, err := s.errorLogRepo.FindErrorLogByID(ctx, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to find error log %s: %w", logID, err)
	}

	next := domain.ErrorStatus(req.Status)
	if !entry.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("cannot move error log from %s to %s: %w", entry.Status, next, apperrors.ErrValidation)
	}

	now := time.Now()
	entry.Status = next
	entry.UpdatedAt = &now
	if req.AssignedTo != "" {
		entry.AssignedTo = req.AssignedTo
	}
	if next == domain.ErrorStatusResolved {
		entry.Resolution = req.Resolution
		entry.ResolvedAt = &now
		entry.ResolvedBy = actorUserID
	}

	if err := s.errorLogRepo.UpdateErrorLogStatus(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to update error log %s: %w", logID, err)
	}

	s.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "system",
		Action:      "ERROR_STATUS_CHANGED",
		Description: fmt.Sprintf("Error log moved to %s", next),
		ActorID:     actorUserID,
		TargetType:  "error_log",
		TargetID:    logID,
	})

	return entry, nil
}
