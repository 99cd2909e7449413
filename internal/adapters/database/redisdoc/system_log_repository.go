package redisdoc

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/apphgio/tools_platform_app/internal/utils/pagination"
	"github.com/redis/go-redis/v9"
)

const systemLogsCollection = "systemlogs"

type RedisSystemLogRepository struct {
	store *store
}

func newRedisSystemLogRepository(rdb *redis.Client) portsrepo.SystemLogRepositoryFacade {
	return &RedisSystemLogRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.SystemLogRepositoryFacade = (*RedisSystemLogRepository)(nil)

func (r *RedisSystemLogRepository) SaveSystemLog(ctx context.Context, log domain.SystemLog) error {
	return r.store.setDoc(ctx, systemLogsCollection, log.LogID, log, log.Timestamp)
}

func matchSystemLog(filters domain.SystemLogFilters) func(*domain.SystemLog) bool {
	return func(l *domain.SystemLog) bool {
		if filters.Type != "" && l.Type != filters.Type {
			return false
		}
		if filters.Category != "" && l.Category != filters.Category {
			return false
		}
		if filters.ActorID != "" && l.ActorID != filters.ActorID {
			return false
		}
		if filters.TargetID != "" && l.TargetID != filters.TargetID {
			return false
		}
		if filters.Action != "" && l.Action != filters.Action {
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

func (r *RedisSystemLogRepository) FindSystemLogs(ctx context.Context, filters domain.SystemLogFilters, opts domain.ListOptions) (domain.Page[domain.SystemLog], error) {
	logs, err := listDocs(ctx, r.store, systemLogsCollection, matchSystemLog(filters))
	if err != nil {
		return domain.Page[domain.SystemLog]{}, err
	}
	total := int64(len(logs))

	start := opts.Offset()
	if opts.StartAfter != "" {
		// Continuation resumes after the named entry regardless of page math.
		if _, afterID, err := pagination.DecodeCursor(opts.StartAfter); err == nil {
			for i := range logs {
				if logs[i].LogID == afterID {
					start = i + 1
					break
				}
			}
		}
	}
	if start >= len(logs) {
		return domain.Page[domain.SystemLog]{Items: []domain.SystemLog{}, Meta: domain.NewPageMeta(opts, total)}, nil
	}
	end := start + opts.Limit
	if end > len(logs) {
		end = len(logs)
	}
	items := logs[start:end]

	meta := domain.NewPageMeta(opts, total)
	if end < len(logs) && len(items) > 0 {
		last := items[len(items)-1]
		meta.NextCursor = pagination.EncodeCursor(last.Timestamp, last.LogID)
	}
	return domain.Page[domain.SystemLog]{Items: items, Meta: meta}, nil
}
