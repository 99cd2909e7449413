package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

const systemLogColumns = `log_id, type, category, action, description,
	actor_id, actor_email, actor_role, target_type, target_id, target_name,
	previous_value, new_value, ip_address, timestamp`

type PgxSystemLogRepository struct {
	db *pgxpool.Pool
}

func newPgxSystemLogRepository(db *pgxpool.Pool) portsrepo.SystemLogRepositoryFacade {
	return &PgxSystemLogRepository{db: db}
}

var _ portsrepo.SystemLogRepositoryFacade = (*PgxSystemLogRepository)(nil)

func (r *PgxSystemLogRepository) SaveSystemLog(ctx context.Context, log domain.SystemLog) error {
	query := `
        INSERT INTO system_logs (` + systemLogColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
    `
	_, err := r.db.Exec(ctx, query,
		log.LogID, log.Type, log.Category, log.Action, log.Description,
		log.ActorID, log.ActorEmail, log.ActorRole, log.TargetType, log.TargetID, log.TargetName,
		log.PreviousValue, log.NewValue, log.IPAddress, log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save system log: %w", err)
	}
	return nil
}

func (r *PgxSystemLogRepository) FindSystemLogs(ctx context.Context, filters domain.SystemLogFilters, opts domain.ListOptions) (domain.Page[domain.SystemLog], error) {
	where := []string{"TRUE"}
	args := []any{}

	if filters.Type != "" {
		args = append(args, filters.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filters.ActorID != "" {
		args = append(args, filters.ActorID)
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filters.TargetID != "" {
		args = append(args, filters.TargetID)
		where = append(where, fmt.Sprintf("target_id = $%d", len(args)))
	}
	if filters.Action != "" {
		args = append(args, filters.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM system_logs WHERE `+whereClause+`;`, args...).Scan(&total); err != nil {
		return domain.Page[domain.SystemLog]{}, fmt.Errorf("failed to count system logs: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset())
	query := fmt.Sprintf(`SELECT %s FROM system_logs WHERE %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d;`,
		systemLogColumns, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return domain.Page[domain.SystemLog]{}, fmt.Errorf("failed to query system logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.SystemLog{}
	for rows.Next() {
		var log domain.SystemLog
		err := rows.Scan(
			&log.LogID, &log.Type, &log.Category, &log.Action, &log.Description,
			&log.ActorID, &log.ActorEmail, &log.ActorRole, &log.TargetType, &log.TargetID, &log.TargetName,
			&log.PreviousValue, &log.NewValue, &log.IPAddress, &log.Timestamp,
		)
		if err != nil {
			return domain.Page[domain.SystemLog]{}, fmt.Errorf("failed to scan system log row: %w", err)
		}
		logs = append(logs, log)
	}
	if rows.Err() != nil {
		return domain.Page[domain.SystemLog]{}, fmt.Errorf("error iterating system log rows: %w", rows.Err())
	}
	return domain.Page[domain.SystemLog]{Items: logs, Meta: domain.NewPageMeta(opts, total)}, nil
}
