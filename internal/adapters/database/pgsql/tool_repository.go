package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/apphgio/tools_platform_app/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const toolColumns = `tool_id, name, slug, description, long_description, category_id, section_id,
	type, tags, access_url, access_type, icon, status, version,
	allowed_roles, related_courses, requires_approval, total_access, last_accessed,
	created_at, created_by, updated_at, updated_by`

type PgxToolRepository struct {
	db *pgxpool.Pool
}

func newPgxToolRepository(db *pgxpool.Pool) portsrepo.ToolRepositoryFacade {
	return &PgxToolRepository{db: db}
}

var _ portsrepo.ToolRepositoryFacade = (*PgxToolRepository)(nil)

func scanTool(row pgx.Row) (*domain.Tool, error) {
	var tool domain.Tool
	var roles []string
	err := row.Scan(
		&tool.ToolID,
		&tool.Name,
		&tool.Slug,
		&tool.Description,
		&tool.LongDescription,
		&tool.CategoryID,
		&tool.SectionID,
		&tool.Type,
		&tool.Tags,
		&tool.AccessURL,
		&tool.AccessType,
		&tool.Icon,
		&tool.Status,
		&tool.Version,
		&roles,
		&tool.RelatedCourses,
		&tool.RequiresApproval,
		&tool.Stats.TotalAccess,
		&tool.Stats.LastAccessed,
		&tool.CreatedAt,
		&tool.CreatedBy,
		&tool.UpdatedAt,
		&tool.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	tool.AllowedRoles = make([]domain.UserRole, len(roles))
	for i, r := range roles {
		tool.AllowedRoles[i] = domain.UserRole(r)
	}
	return &tool, nil
}

func rolesToStrings(roles []domain.UserRole) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (r *PgxToolRepository) FindToolByID(ctx context.Context, toolID string) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE tool_id = $1;`
	tool, err := scanTool(r.db.QueryRow(ctx, query, toolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tool by ID %s: %w", toolID, err)
	}
	return tool, nil
}

func (r *PgxToolRepository) FindToolBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE slug = $1;`
	tool, err := scanTool(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tool by slug %s: %w", slug, err)
	}
	return tool, nil
}

// buildToolWhere translates the filter set, including the role visibility
// predicate, into a WHERE clause.
func buildToolWhere(filters domain.ToolFilters) (string, []any) {
	where := []string{"TRUE"}
	args := []any{}

	if filters.MatchNone {
		return "FALSE", args
	}
	if filters.CategoryID != "" {
		args = append(args, filters.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filters.SectionID != "" {
		args = append(args, filters.SectionID)
		where = append(where, fmt.Sprintf("section_id = $%d", len(args)))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	switch {
	case len(filters.ToolIDs) > 0:
		args = append(args, filters.ToolIDs)
		where = append(where, fmt.Sprintf("tool_id = ANY($%d)", len(args)))
	case filters.AllowedRole != "" && len(filters.AnyCourse) > 0:
		args = append(args, string(filters.AllowedRole))
		roleArg := len(args)
		args = append(args, filters.AnyCourse)
		where = append(where, fmt.Sprintf("($%d = ANY(allowed_roles) OR related_courses && $%d)", roleArg, len(args)))
	case filters.AllowedRole != "":
		args = append(args, string(filters.AllowedRole))
		where = append(where, fmt.Sprintf("$%d = ANY(allowed_roles)", len(args)))
	}

	return strings.Join(where, " AND "), args
}

func (r *PgxToolRepository) FindTools(ctx context.Context, filters domain.ToolFilters, opts domain.ListOptions) ([]domain.Tool, int64, error) {
	whereClause, args := buildToolWhere(filters)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tools WHERE `+whereClause+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tools: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset())
	query := fmt.Sprintf(`SELECT %s FROM tools WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d;`,
		toolColumns, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tools: %w", err)
	}
	defer rows.Close()

	tools := []domain.Tool{}
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan tool row: %w", err)
		}
		tools = append(tools, *tool)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating tool rows: %w", rows.Err())
	}
	return tools, total, nil
}

func (r *PgxToolRepository) CountActiveTools(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tools WHERE status = 'active';`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active tools: %w", err)
	}
	return n, nil
}

func (r *PgxToolRepository) FindTopTools(ctx context.Context, limit int) ([]domain.ToolAccessCount, error) {
	query := `
        SELECT tool_id, name, total_access
        FROM tools
        WHERE total_access > 0
        ORDER BY total_access DESC
        LIMIT $1;
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top tools: %w", err)
	}
	defer rows.Close()

	top := []domain.ToolAccessCount{}
	for rows.Next() {
		var row domain.ToolAccessCount
		if err := rows.Scan(&row.ToolID, &row.ToolName, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top tool row: %w", err)
		}
		top = append(top, row)
	}
	return top, rows.Err()
}

func (r *PgxToolRepository) SaveTool(ctx context.Context, tool domain.Tool) error {
	defer metrics.TrackStorageOperation("save_tool")(time.Now())

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
        INSERT INTO tools (` + toolColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
    `
	_, err = tx.Exec(ctx, query,
		tool.ToolID, tool.Name, tool.Slug, tool.Description, tool.LongDescription,
		tool.CategoryID, tool.SectionID, tool.Type, tool.Tags, tool.AccessURL,
		tool.AccessType, tool.Icon, tool.Status, tool.Version,
		rolesToStrings(tool.AllowedRoles), tool.RelatedCourses, tool.RequiresApproval,
		tool.Stats.TotalAccess, tool.Stats.LastAccessed,
		tool.CreatedAt, tool.CreatedBy, tool.UpdatedAt, tool.UpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert tool: %w", err)
	}

	if err := adjustToolCounts(ctx, tx, tool.CategoryID, tool.SectionID, 1); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tool insert: %w", err)
	}
	return nil
}

func (r *PgxToolRepository) UpdateTool(ctx context.Context, tool domain.Tool, prevCategoryID, prevSectionID string) error {
	defer metrics.TrackStorageOperation("update_tool")(time.Now())

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
        UPDATE tools
        SET name = $1, slug = $2, description = $3, long_description = $4,
            category_id = $5, section_id = $6, type = $7, tags = $8,
            access_url = $9, access_type = $10, icon = $11, status = $12, version = $13,
            allowed_roles = $14, related_courses = $15, requires_approval = $16,
            updated_at = $17, updated_by = $18
        WHERE tool_id = $19;
    `
	cmdTag, err := tx.Exec(ctx, query,
		tool.Name, tool.Slug, tool.Description, tool.LongDescription,
		tool.CategoryID, tool.SectionID, tool.Type, tool.Tags,
		tool.AccessURL, tool.AccessType, tool.Icon, tool.Status, tool.Version,
		rolesToStrings(tool.AllowedRoles), tool.RelatedCourses, tool.RequiresApproval,
		tool.UpdatedAt, tool.UpdatedBy, tool.ToolID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tool: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// A parent move decrements the old counter and increments the new one
	// atomically with the row update.
	if tool.CategoryID != prevCategoryID {
		if err := adjustCategoryCount(ctx, tx, prevCategoryID, -1); err != nil {
			return err
		}
		if err := adjustCategoryCount(ctx, tx, tool.CategoryID, 1); err != nil {
			return err
		}
	}
	if tool.SectionID != prevSectionID {
		if err := adjustSectionCount(ctx, tx, prevSectionID, -1); err != nil {
			return err
		}
		if err := adjustSectionCount(ctx, tx, tool.SectionID, 1); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tool update: %w", err)
	}
	return nil
}

func (r *PgxToolRepository) DeleteTool(ctx context.Context, toolID string) error {
	defer metrics.TrackStorageOperation("delete_tool")(time.Now())

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var categoryID, sectionID string
	err = tx.QueryRow(ctx, `DELETE FROM tools WHERE tool_id = $1 RETURNING category_id, section_id;`, toolID).
		Scan(&categoryID, &sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete tool: %w", err)
	}

	if err := adjustToolCounts(ctx, tx, categoryID, sectionID, -1); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tool delete: %w", err)
	}
	return nil
}

func (r *PgxToolRepository) RecordAccess(ctx context.Context, toolID string, at time.Time) error {
	query := `
        UPDATE tools
        SET total_access = total_access + 1, last_accessed = $1
        WHERE tool_id = $2;
    `
	cmdTag, err := r.db.Exec(ctx, query, at, toolID)
	if err != nil {
		return fmt.Errorf("failed to record tool access: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func adjustToolCounts(ctx context.Context, tx pgx.Tx, categoryID, sectionID string, delta int) error {
	if err := adjustCategoryCount(ctx, tx, categoryID, delta); err != nil {
		return err
	}
	return adjustSectionCount(ctx, tx, sectionID, delta)
}

func adjustCategoryCount(ctx context.Context, tx pgx.Tx, categoryID string, delta int) error {
	_, err := tx.Exec(ctx,
		`UPDATE categories SET tool_count = GREATEST(tool_count + $1, 0) WHERE category_id = $2;`,
		delta, categoryID)
	if err != nil {
		return fmt.Errorf("failed to adjust category tool count: %w", err)
	}
	return nil
}

func adjustSectionCount(ctx context.Context, tx pgx.Tx, sectionID string, delta int) error {
	_, err := tx.Exec(ctx,
		`UPDATE sections SET tool_count = GREATEST(tool_count + $1, 0) WHERE section_id = $2;`,
		delta, sectionID)
	if err != nil {
		return fmt.Errorf("failed to adjust section tool count: %w", err)
	}
	return nil
}
