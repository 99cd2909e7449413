package redisdoc

import (
	"context"
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/apphgio/tools_platform_app/internal/platform/metrics"
	"github.com/apphgio/tools_platform_app/internal/utils/pagination"
	"github.com/redis/go-redis/v9"
)

const accessLogsCollection = "accesslogs"

type RedisAccessLogRepository struct {
	store *store
}

func newRedisAccessLogRepository(rdb *redis.Client) portsrepo.AccessLogRepositoryFacade {
	return &RedisAccessLogRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.AccessLogRepositoryFacade = (*RedisAccessLogRepository)(nil)

// SupportsCursor is true: the timestamp index allows continuation tokens.
func (r *RedisAccessLogRepository) SupportsCursor() bool { return true }

func (r *RedisAccessLogRepository) SaveAccessLog(ctx context.Context, log domain.AccessLog) error {
	defer metrics.TrackStorageOperation("save_access_log")(time.Now())

	return r.store.setDoc(ctx, accessLogsCollection, log.LogID, log, log.Timestamp)
}

func matchAccessLog(filters domain.AccessLogFilters) func(*domain.AccessLog) bool {
	return func(l *domain.AccessLog) bool {
		if filters.UserID != "" && l.UserID != filters.UserID {
			return false
		}
		if filters.ToolID != "" && l.ToolID != filters.ToolID {
			return false
		}
		if filters.Action != "" && l.Action != filters.Action {
			return false
		}
		if filters.Success != nil && l.Success != *filters.Success {
			return false
		}
		if filters.UserRole != "" && l.UserRole != filters.UserRole {
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

func (r *RedisAccessLogRepository) FindAccessLogs(ctx context.Context, filters domain.AccessLogFilters, opts domain.ListOptions) (domain.Page[domain.AccessLog], error) {
	logs, err := listDocs(ctx, r.store, accessLogsCollection, matchAccessLog(filters))
	if err != nil {
		return domain.Page[domain.AccessLog]{}, err
	}
	total := int64(len(logs))

	if opts.StartAfter != "" {
		return pageByCursor(logs, opts, total)
	}

	start := opts.Offset()
	if start >= len(logs) {
		return domain.Page[domain.AccessLog]{Items: []domain.AccessLog{}, Meta: domain.NewPageMeta(opts, total)}, nil
	}
	end := start + opts.Limit
	if end > len(logs) {
		end = len(logs)
	}
	return domain.Page[domain.AccessLog]{Items: logs[start:end], Meta: domain.NewPageMeta(opts, total)}, nil
}

// pageByCursor resumes a newest-first listing after the entry named by the
// cursor. The resulting meta carries the continuation token instead of
// offset positions.
func pageByCursor(logs []domain.AccessLog, opts domain.ListOptions, total int64) (domain.Page[domain.AccessLog], error) {
	_, afterID, err := pagination.DecodeCursor(opts.StartAfter)
	if err != nil {
		return domain.Page[domain.AccessLog]{}, err
	}

	start := 0
	for i := range logs {
		if logs[i].LogID == afterID {
			start = i + 1
			break
		}
	}
	end := start + opts.Limit
	if end > len(logs) {
		end = len(logs)
	}
	items := logs[start:end]

	meta := domain.NewPageMeta(opts, total)
	meta.HasNext = end < len(logs)
	if meta.HasNext && len(items) > 0 {
		last := items[len(items)-1]
		meta.NextCursor = pagination.EncodeCursor(last.Timestamp, last.LogID)
	}
	return domain.Page[domain.AccessLog]{Items: items, Meta: meta}, nil
}

func (r *RedisAccessLogRepository) CountAccessSince(ctx context.Context, since time.Time) (int64, error) {
	logs, err := listDocs(ctx, r.store, accessLogsCollection, func(l *domain.AccessLog) bool {
		return !l.Timestamp.Before(since)
	})
	if err != nil {
		return 0, err
	}
	return int64(len(logs)), nil
}

func (r *RedisAccessLogRepository) CountAccessByAction(ctx context.Context, toolID string, since time.Time) (map[domain.AccessAction]int64, error) {
	logs, err := listDocs(ctx, r.store, accessLogsCollection, func(l *domain.AccessLog) bool {
		return l.ToolID == toolID && !l.Timestamp.Before(since)
	})
	if err != nil {
		return nil, err
	}
	counts := map[domain.AccessAction]int64{}
	for _, l := range logs {
		counts[l.Action]++
	}
	return counts, nil
}

func (r *RedisAccessLogRepository) AvgResponseTime(ctx context.Context, toolID string, since time.Time) (float64, error) {
	logs, err := listDocs(ctx, r.store, accessLogsCollection, func(l *domain.AccessLog) bool {
		return l.ToolID == toolID && !l.Timestamp.Before(since) && l.ResponseTime > 0
	})
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, nil
	}
	var sum int64
	for _, l := range logs {
		sum += l.ResponseTime
	}
	return float64(sum) / float64(len(logs)), nil
}

func (r *RedisAccessLogRepository) CountAccessByUser(ctx context.Context, userID string, topN int) (int64, []domain.ToolAccessCount, error) {
	logs, err := listDocs(ctx, r.store, accessLogsCollection, func(l *domain.AccessLog) bool {
		return l.UserID == userID
	})
	if err != nil {
		return 0, nil, err
	}

	byTool := map[string]*domain.ToolAccessCount{}
	for _, l := range logs {
		entry, ok := byTool[l.ToolID]
		if !ok {
			entry = &domain.ToolAccessCount{ToolID: l.ToolID, ToolName: l.ToolName}
			byTool[l.ToolID] = entry
		}
		entry.Count++
	}

	top := make([]domain.ToolAccessCount, 0, len(byTool))
	for _, entry := range byTool {
		top = append(top, *entry)
	}
	for i := 1; i < len(top); i++ {
		for j := i; j > 0 && top[j].Count > top[j-1].Count; j-- {
			top[j], top[j-1] = top[j-1], top[j]
		}
	}
	if len(top) > topN {
		top = top[:topN]
	}
	return int64(len(logs)), top, nil
}
