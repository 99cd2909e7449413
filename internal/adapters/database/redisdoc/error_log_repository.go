package redisdoc

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const errorLogsCollection = "errorlogs"

type RedisErrorLogRepository struct {
	store *store
}

func newRedisErrorLogRepository(rdb *redis.Client) portsrepo.ErrorLogRepositoryFacade {
	return &RedisErrorLogRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.ErrorLogRepositoryFacade = (*RedisErrorLogRepository)(nil)

func (r *RedisErrorLogRepository) SaveErrorLog(ctx context.Context, log domain.ErrorLog) error {
	return r.store.setDoc(ctx, errorLogsCollection, log.LogID, log, log.Timestamp)
}

func (r *RedisErrorLogRepository) FindErrorLogByID(ctx context.Context, logID string) (*domain.ErrorLog, error) {
	var log domain.ErrorLog
	if err := r.store.getDoc(ctx, errorLogsCollection, logID, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func matchErrorLog(filters domain.ErrorLogFilters) func(*domain.ErrorLog) bool {
	return func(l *domain.ErrorLog) bool {
		if filters.Type != "" && l.Type != filters.Type {
			return false
		}
		if filters.Severity != "" && l.Severity != filters.Severity {
			return false
		}
		if filters.Status != "" && l.Status != filters.Status {
			return false
		}
		if filters.ToolID != "" && l.ToolID != filters.ToolID {
			return false
		}
		if filters.DateFrom != nil && l.Timestamp.Before(*filters.DateFrom) {
			return false
		}
		if filters.DateTo != nil && !l.Timestamp.Before(*filters.DateTo) {
			return false
		}
		return true
	}
}

func (r *RedisErrorLogRepository) FindErrorLogs(ctx context.Context, filters domain.ErrorLogFilters, opts domain.ListOptions) (domain.Page[domain.ErrorLog], error) {
	logs, err := listDocs(ctx, r.store, errorLogsCollection, matchErrorLog(filters))
	if err != nil {
		return domain.Page[domain.ErrorLog]{}, err
	}
	total := int64(len(logs))

	start := opts.Offset()
	if start >= len(logs) {
		return domain.Page[domain.ErrorLog]{Items: []domain.ErrorLog{}, Meta: domain.NewPageMeta(opts, total)}, nil
	}
	end := start + opts.Limit
	if end > len(logs) {
		end = len(logs)
	}
	return domain.Page[domain.ErrorLog]{Items: logs[start:end], Meta: domain.NewPageMeta(opts, total)}, nil
}

func (r *RedisErrorLogRepository) UpdateErrorLogStatus(ctx context.Context, log domain.ErrorLog) error {
	var existing domain.ErrorLog
	if err := r.store.getDoc(ctx, errorLogsCollection, log.LogID, &existing); err != nil {
		return err
	}
	return r.store.setDoc(ctx, errorLogsCollection, log.LogID, log, log.Timestamp)
}

func (r *RedisErrorLogRepository) CountUnresolvedErrors(ctx context.Context) (int64, error) {
	logs, err := listDocs(ctx, r.store, errorLogsCollection, func(l *domain.ErrorLog) bool {
		return l.Status != domain.ErrorStatusResolved && l.Status != domain.ErrorStatusIgnored
	})
	if err != nil {
		return 0, err
	}
	return int64(len(logs)), nil
}
