package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSettingsRepository struct {
	db *pgxpool.Pool
}

func newPgxSettingsRepository(db *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{db: db}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) FindSettings(ctx context.Context) (domain.PlatformSettings, error) {
	rows, err := r.db.Query(ctx, `SELECT section, settings_value FROM platform_settings;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := domain.PlatformSettings{}
	for rows.Next() {
		var section domain.SettingsSection
		var values map[string]any
		if err := rows.Scan(&section, &values); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		settings[section] = values
	}
	return settings, rows.Err()
}

func (r *PgxSettingsRepository) FindSettingsSection(ctx context.Context, section domain.SettingsSection) (map[string]any, error) {
	var values map[string]any
	err := r.db.QueryRow(ctx,
		`SELECT settings_value FROM platform_settings WHERE section = $1;`, section).Scan(&values)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settings section %s: %w", section, err)
	}
	return values, nil
}

func (r *PgxSettingsRepository) SaveSettingsSection(ctx context.Context, section domain.SettingsSection, values map[string]any) error {
	query := `
        INSERT INTO platform_settings (section, settings_value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (section) DO UPDATE SET
            settings_value = EXCLUDED.settings_value,
            updated_at = EXCLUDED.updated_at;
    `
	_, err := r.db.Exec(ctx, query, section, values, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save settings section %s: %w", section, err)
	}
	return nil
}
