package services

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// SettingsSvcFacade is the keyed platform-settings store:
// read all, read one section, patch one section (read-modify-write).
type SettingsSvcFacade interface {
	GetSettings(ctx context.Context) (domain.PlatformSettings, error)
	GetSettingsSection(ctx context.Context, section domain.SettingsSection) (map[string]any, error)
	UpdateSettingsSection(ctx context.Context, section domain.SettingsSection, values map[string]any, actorUserID string) (map[string]any, error)
}
