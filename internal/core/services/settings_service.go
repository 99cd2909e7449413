package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
)

// settingsService implements SettingsSvcFacade.
type settingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade
	audit        portssvc.AuditSvcFacade
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade, audit portssvc.AuditSvcFacade) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo, audit: audit}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

func (s *settingsService) GetSettings(ctx context.Context) (domain.PlatformSettings, error) {
	settings, err := s.settingsRepo.FindSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = domain.PlatformSettings{}
	}
	return settings, nil
}

func (s *settingsService) GetSettingsSection(ctx context.Context, section domain.SettingsSection) (map[string]any, error) {
	if !section.IsValid() {
		return nil, fmt.Errorf("unknown settings section %q: %w", section, apperrors.ErrValidation)
	}
	values, err := s.settingsRepo.FindSettingsSection(ctx, section)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A never-written section reads as empty, not as an error.
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to load settings section %s: %w", section, err)
	}
	return values, nil
}

// UpdateSettingsSection merges the given keys into the section and writes
// the whole section back. Keys absent from values are preserved.
func (s *settingsService) UpdateSettingsSection(ctx context.Context, section domain.SettingsSection, values map[string]any, actorUserID string) (map[string]any, error) {
	if !section.IsValid() {
		return nil, fmt.Errorf("unknown settings section %q: %w", section, apperrors.ErrValidation)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no settings values supplied: %w", apperrors.ErrValidation)
	}

	current, err := s.GetSettingsSection(ctx, section)
	if err != nil {
		return nil, err
	}

	previous := make(map[string]any, len(current))
	for k, v := range current {
		previous[k] = v
	}
	for k, v := range values {
		current[k] = v
	}

	if err := s.settingsRepo.SaveSettingsSection(ctx, section, current); err != nil {
		return nil, fmt.Errorf("failed to save settings section %s: %w", section, err)
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:          domain.SystemLogAudit,
		Category:      "settings",
		Action:        "SETTINGS_UPDATED",
		Description:   fmt.Sprintf("Settings section %s updated", section),
		ActorID:       actorUserID,
		TargetType:    "settings",
		TargetID:      string(section),
		PreviousValue: previous,
		NewValue:      current,
	})

	return current, nil
}
