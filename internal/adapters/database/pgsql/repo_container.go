package pgsql

import (
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		ToolRepo:         newPgxToolRepository(dbPool),
		CategoryRepo:     newPgxCategoryRepository(dbPool),
		SectionRepo:      newPgxSectionRepository(dbPool),
		AccessLogRepo:    newPgxAccessLogRepository(dbPool),
		ErrorLogRepo:     newPgxErrorLogRepository(dbPool),
		SystemLogRepo:    newPgxSystemLogRepository(dbPool),
		RefreshTokenRepo: newPgxRefreshTokenRepository(dbPool),
		SettingsRepo:     newPgxSettingsRepository(dbPool),
	}
}
