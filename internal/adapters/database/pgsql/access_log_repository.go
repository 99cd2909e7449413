package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/apphgio/tools_platform_app/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accessLogColumns = `log_id, user_id, user_email, user_name, user_role, tool_id, tool_name,
	action, ip_address, user_agent, success, error_code, error_message, response_time, timestamp`

type PgxAccessLogRepository struct {
	db *pgxpool.Pool
}

func newPgxAccessLogRepository(db *pgxpool.Pool) portsrepo.AccessLogRepositoryFacade {
	return &PgxAccessLogRepository{db: db}
}

var _ portsrepo.AccessLogRepositoryFacade = (*PgxAccessLogRepository)(nil)

// SupportsCursor is false: this backend pages by offset only.
func (r *PgxAccessLogRepository) SupportsCursor() bool { return false }

func (r *PgxAccessLogRepository) SaveAccessLog(ctx context.Context, log domain.AccessLog) error {
	defer metrics.TrackStorageOperation("save_access_log")(time.Now())

	query := `
        INSERT INTO access_logs (` + accessLogColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
    `
	_, err := r.db.Exec(ctx, query,
		log.LogID, log.UserID, log.UserEmail, log.UserName, log.UserRole,
		log.ToolID, log.ToolName, log.Action, log.IPAddress, log.UserAgent,
		log.Success, log.ErrorCode, log.ErrorMessage, log.ResponseTime, log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save access log: %w", err)
	}
	return nil
}

func buildAccessLogWhere(filters domain.AccessLogFilters) (string, []any) {
	where := []string{"TRUE"}
	args := []any{}

	if filters.UserID != "" {
		args = append(args, filters.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filters.ToolID != "" {
		args = append(args, filters.ToolID)
		where = append(where, fmt.Sprintf("tool_id = $%d", len(args)))
	}
	if filters.Action != "" {
		args = append(args, filters.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if filters.Success != nil {
		args = append(args, *filters.Success)
		where = append(where, fmt.Sprintf("success = $%d", len(args)))
	}
	if filters.UserRole != "" {
		args = append(args, filters.UserRole)
		where = append(where, fmt.Sprintf("user_role = $%d", len(args)))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		where = append(where, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		where = append(where, fmt.Sprintf("timestamp < $%d", len(args)))
	}
	return strings.Join(where, " AND "), args
}

func scanAccessLog(row pgx.Row) (*domain.AccessLog, error) {
	var log domain.AccessLog
	err := row.Scan(
		&log.LogID, &log.UserID, &log.UserEmail, &log.UserName, &log.UserRole,
		&log.ToolID, &log.ToolName, &log.Action, &log.IPAddress, &log.UserAgent,
		&log.Success, &log.ErrorCode, &log.ErrorMessage, &log.ResponseTime, &log.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *PgxAccessLogRepository) FindAccessLogs(ctx context.Context, filters domain.AccessLogFilters, opts domain.ListOptions) (domain.Page[domain.AccessLog], error) {
	whereClause, args := buildAccessLogWhere(filters)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM access_logs WHERE `+whereClause+`;`, args...).Scan(&total); err != nil {
		return domain.Page[domain.AccessLog]{}, fmt.Errorf("failed to count access logs: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset())
	query := fmt.Sprintf(`SELECT %s FROM access_logs WHERE %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d;`,
		accessLogColumns, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return domain.Page[domain.AccessLog]{}, fmt.Errorf("failed to query access logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.AccessLog{}
	for rows.Next() {
		log, err := scanAccessLog(rows)
		if err != nil {
			return domain.Page[domain.AccessLog]{}, fmt.Errorf("failed to scan access log row: %w", err)
		}
		logs = append(logs, *log)
	}
	if rows.Err() != nil {
		return domain.Page[domain.AccessLog]{}, fmt.Errorf("error iterating access log rows: %w", rows.Err())
	}
	return domain.Page[domain.AccessLog]{Items: logs, Meta: domain.NewPageMeta(opts, total)}, nil
}

func (r *PgxAccessLogRepository) CountAccessSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM access_logs WHERE timestamp >= $1;`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent access: %w", err)
	}
	return n, nil
}

func (r *PgxAccessLogRepository) CountAccessByAction(ctx context.Context, toolID string, since time.Time) (map[domain.AccessAction]int64, error) {
	query := `
        SELECT action, COUNT(*)
        FROM access_logs
        WHERE tool_id = $1 AND timestamp >= $2
        GROUP BY action;
    `
	rows, err := r.db.Query(ctx, query, toolID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to group access by action: %w", err)
	}
	defer rows.Close()

	counts := map[domain.AccessAction]int64{}
	for rows.Next() {
		var action domain.AccessAction
		var n int64
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("failed to scan action count: %w", err)
		}
		counts[action] = n
	}
	return counts, rows.Err()
}

func (r *PgxAccessLogRepository) AvgResponseTime(ctx context.Context, toolID string, since time.Time) (float64, error) {
	query := `
        SELECT COALESCE(AVG(response_time), 0)
        FROM access_logs
        WHERE tool_id = $1 AND timestamp >= $2 AND response_time > 0;
    `
	var avg float64
	if err := r.db.QueryRow(ctx, query, toolID, since).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average response times: %w", err)
	}
	return avg, nil
}

func (r *PgxAccessLogRepository) CountAccessByUser(ctx context.Context, userID string, topN int) (int64, []domain.ToolAccessCount, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM access_logs WHERE user_id = $1;`, userID).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count user access: %w", err)
	}

	query := `
        SELECT tool_id, MAX(tool_name), COUNT(*) AS cnt
        FROM access_logs
        WHERE user_id = $1
        GROUP BY tool_id
        ORDER BY cnt DESC
        LIMIT $2;
    `
	rows, err := r.db.Query(ctx, query, userID, topN)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to rank user tools: %w", err)
	}
	defer rows.Close()

	top := []domain.ToolAccessCount{}
	for rows.Next() {
		var row domain.ToolAccessCount
		if err := rows.Scan(&row.ToolID, &row.ToolName, &row.Count); err != nil {
			return 0, nil, fmt.Errorf("failed to scan user tool count: %w", err)
		}
		top = append(top, row)
	}
	return total, top, rows.Err()
}
