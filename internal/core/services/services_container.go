package services

import (
	"log/slog"

	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil when audit event fan-out is disabled.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher AuditEventPublisher, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit goes first since nearly every other service records through it.
	container.Audit = NewAuditService(
		repos.AccessLogRepo,
		repos.ErrorLogRepo,
		repos.SystemLogRepo,
		publisher,
		logger,
	)

	container.User = NewUserService(repos.UserRepo, repos.ToolRepo, repos.RefreshTokenRepo, container.Audit)
	container.Tool = NewToolService(
		repos.ToolRepo,
		repos.CategoryRepo,
		repos.SectionRepo,
		repos.UserRepo,
		repos.AccessLogRepo,
		container.Audit,
	)
	container.Taxonomy = NewTaxonomyService(repos.CategoryRepo, repos.SectionRepo, repos.ToolRepo, container.Audit)
	container.Auth = NewAuthService(cfg, repos.UserRepo, repos.RefreshTokenRepo, container.Audit)
	container.Analytics = NewAnalyticsService(repos.UserRepo, repos.ToolRepo, repos.AccessLogRepo, repos.ErrorLogRepo)
	container.Settings = NewSettingsService(repos.SettingsRepo, container.Audit)

	return container
}
