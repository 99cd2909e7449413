package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `category_id, name, slug, description, icon, color, display_order, is_active, tool_count,
	created_at, created_by, updated_at, updated_by`

const sectionColumns = `section_id, name, slug, description, icon, display_order, is_active, tool_count,
	created_at, created_by, updated_at, updated_by`

type PgxCategoryRepository struct {
	db *pgxpool.Pool
}

func newPgxCategoryRepository(db *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{db: db}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color,
		&c.Order, &c.IsActive, &c.ToolCount,
		&c.CreatedAt, &c.CreatedBy, &c.UpdatedAt, &c.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`
	category, err := scanCategory(r.db.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	return category, nil
}

func (r *PgxCategoryRepository) FindCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_order ASC, name ASC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
        INSERT INTO categories (` + categoryColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.db.Exec(ctx, query,
		category.CategoryID, category.Name, category.Slug, category.Description,
		category.Icon, category.Color, category.Order, category.IsActive, category.ToolCount,
		category.CreatedAt, category.CreatedBy, category.UpdatedAt, category.UpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
        UPDATE categories
        SET name = $1, description = $2, icon = $3, color = $4, display_order = $5,
            is_active = $6, updated_at = $7, updated_by = $8
        WHERE category_id = $9;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		category.Name, category.Description, category.Icon, category.Color, category.Order,
		category.IsActive, category.UpdatedAt, category.UpdatedBy, category.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type PgxSectionRepository struct {
	db *pgxpool.Pool
}

func newPgxSectionRepository(db *pgxpool.Pool) portsrepo.SectionRepositoryFacade {
	return &PgxSectionRepository{db: db}
}

var _ portsrepo.SectionRepositoryFacade = (*PgxSectionRepository)(nil)

func scanSection(row pgx.Row) (*domain.Section, error) {
	var s domain.Section
	err := row.Scan(
		&s.SectionID, &s.Name, &s.Slug, &s.Description, &s.Icon,
		&s.Order, &s.IsActive, &s.ToolCount,
		&s.CreatedAt, &s.CreatedBy, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgxSectionRepository) FindSectionByID(ctx context.Context, sectionID string) (*domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE section_id = $1;`
	section, err := scanSection(r.db.QueryRow(ctx, query, sectionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find section by ID %s: %w", sectionID, err)
	}
	return section, nil
}

func (r *PgxSectionRepository) FindSections(ctx context.Context, activeOnly bool) ([]domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_order ASC, name ASC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer rows.Close()

	sections := []domain.Section{}
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section row: %w", err)
		}
		sections = append(sections, *section)
	}
	return sections, rows.Err()
}

func (r *PgxSectionRepository) SaveSection(ctx context.Context, section domain.Section) error {
	query := `
        INSERT INTO sections (` + sectionColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.db.Exec(ctx, query,
		section.SectionID, section.Name, section.Slug, section.Description, section.Icon,
		section.Order, section.IsActive, section.ToolCount,
		section.CreatedAt, section.CreatedBy, section.UpdatedAt, section.UpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save section: %w", err)
	}
	return nil
}

func (r *PgxSectionRepository) UpdateSection(ctx context.Context, section domain.Section) error {
	query := `
        UPDATE sections
        SET name = $1, description = $2, icon = $3, display_order = $4,
            is_active = $5, updated_at = $6, updated_by = $7
        WHERE section_id = $8;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		section.Name, section.Description, section.Icon, section.Order,
		section.IsActive, section.UpdatedAt, section.UpdatedBy, section.SectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSectionRepository) DeleteSection(ctx context.Context, sectionID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sections WHERE section_id = $1;`, sectionID)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
