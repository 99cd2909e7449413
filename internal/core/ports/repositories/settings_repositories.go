package repositories

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// SettingsRepositoryFacade is the keyed platform-settings store.
type SettingsRepositoryFacade interface {
	// FindSettings returns every stored section. Missing sections are absent from the map.
	FindSettings(ctx context.Context) (domain.PlatformSettings, error)

	// FindSettingsSection returns one section's object.
	FindSettingsSection(ctx context.Context, section domain.SettingsSection) (map[string]any, error)

	// SaveSettingsSection overwrites one section's object (read-modify-write
	// happens in the service).
	SaveSettingsSection(ctx context.Context, section domain.SettingsSection, values map[string]any) error
}
