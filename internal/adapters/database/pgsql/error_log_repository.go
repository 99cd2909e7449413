package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const errorLogColumns = `log_id, type, severity, user_id, tool_id, endpoint, method,
	code, message, stack, status, assigned_to, resolution, resolved_at, resolved_by,
	timestamp, updated_at`

type PgxErrorLogRepository struct {
	db *pgxpool.Pool
}

func newPgxErrorLogRepository(db *pgxpool.Pool) portsrepo.ErrorLogRepositoryFacade {
	return &PgxErrorLogRepository{db: db}
}

var _ portsrepo.ErrorLogRepositoryFacade = (*PgxErrorLogRepository)(nil)

func scanErrorLog(row pgx.Row) (*domain.ErrorLog, error) {
	var log domain.ErrorLog
	err := row.Scan(
		&log.LogID, &log.Type, &log.Severity, &log.UserID, &log.ToolID,
		&log.Endpoint, &log.Method, &log.Code, &log.Message, &log.Stack,
		&log.Status, &log.AssignedTo, &log.Resolution, &log.ResolvedAt, &log.ResolvedBy,
		&log.Timestamp, &log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *PgxErrorLogRepository) SaveErrorLog(ctx context.Context, log domain.ErrorLog) error {
	query := `
        INSERT INTO error_logs (` + errorLogColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
    `
	_, err := r.db.Exec(ctx, query,
		log.LogID, log.Type, log.Severity, log.UserID, log.ToolID,
		log.Endpoint, log.Method, log.Code, log.Message, log.Stack,
		log.Status, log.AssignedTo, log.Resolution, log.ResolvedAt, log.ResolvedBy,
		log.Timestamp, log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save error log: %w", err)
	}
	return nil
}

func (r *PgxErrorLogRepository) FindErrorLogByID(ctx context.Context, logID string) (*domain.ErrorLog, error) {
	query := `SELECT ` + errorLogColumns + ` FROM error_logs WHERE log_id = $1;`
	log, err := scanErrorLog(r.db.QueryRow(ctx, query, logID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find error log by ID %s: %w", logID, err)
	}
	return log, nil
}

func (r *PgxErrorLogRepository) FindErrorLogs(ctx context.Context, filters domain.ErrorLogFilters, opts domain.ListOptions) (domain.Page[domain.ErrorLog], error) {
	where := []string{"TRUE"}
	args := []any{}

	if filters.Type != "" {
		args = append(args, filters.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filters.Severity != "" {
		args = append(args, filters.Severity)
		where = append(where, fmt.Sprintf("severity = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.ToolID != "" {
		args = append(args, filters.ToolID)
		where = append(where, fmt.Sprintf("tool_id = $%d", len(args)))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		where = append(where, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		where = append(where, fmt.Sprintf("timestamp < $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM error_logs WHERE `+whereClause+`;`, args...).Scan(&total); err != nil {
		return domain.Page[domain.ErrorLog]{}, fmt.Errorf("failed to count error logs: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset())
	query := fmt.Sprintf(`SELECT %s FROM error_logs WHERE %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d;`,
		errorLogColumns, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return domain.Page[domain.ErrorLog]{}, fmt.Errorf("failed to query error logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.ErrorLog{}
	for rows.Next() {
		log, err := scanErrorLog(rows)
		if err != nil {
			return domain.Page[domain.ErrorLog]{}, fmt.Errorf("failed to scan error log row: %w", err)
		}
		logs = append(logs, *log)
	}
	if rows.Err() != nil {
		return domain.Page[domain.ErrorLog]{}, fmt.Errorf("error iterating error log rows: %w", rows.Err())
	}
	return domain.Page[domain.ErrorLog]{Items: logs, Meta: domain.NewPageMeta(opts, total)}, nil
}

func (r *PgxErrorLogRepository) UpdateErrorLogStatus(ctx context.Context, log domain.ErrorLog) error {
	query := `
        UPDATE error_logs
        SET status = $1, assigned_to = $2, resolution = $3, resolved_at = $4, resolved_by = $5, updated_at = $6
        WHERE log_id = $7;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		log.Status, log.AssignedTo, log.Resolution, log.ResolvedAt, log.ResolvedBy,
		log.UpdatedAt, log.LogID,
	)
	if err != nil {
		return fmt.Errorf("failed to update error log status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxErrorLogRepository) CountUnresolvedErrors(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM error_logs WHERE status NOT IN ('resolved', 'ignored');`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unresolved errors: %w", err)
	}
	return n, nil
}
