package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// settingsKey is the hash holding one JSON object per settings section.
const settingsKey = keyPrefix + ":settings"

type RedisSettingsRepository struct {
	store *store
}

func newRedisSettingsRepository(rdb *redis.Client) portsrepo.SettingsRepositoryFacade {
	return &RedisSettingsRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.SettingsRepositoryFacade = (*RedisSettingsRepository)(nil)

func (r *RedisSettingsRepository) FindSettings(ctx context.Context) (domain.PlatformSettings, error) {
	raw, err := r.store.rdb.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := domain.PlatformSettings{}
	for section, payload := range raw {
		var values map[string]any
		if err := json.Unmarshal([]byte(payload), &values); err != nil {
			return nil, fmt.Errorf("failed to decode settings section %s: %w", section, err)
		}
		settings[domain.SettingsSection(section)] = values
	}
	return settings, nil
}

func (r *RedisSettingsRepository) FindSettingsSection(ctx context.Context, section domain.SettingsSection) (map[string]any, error) {
	payload, err := r.store.rdb.HGet(ctx, settingsKey, string(section)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read settings section %s: %w", section, err)
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return nil, fmt.Errorf("failed to decode settings section %s: %w", section, err)
	}
	return values, nil
}

func (r *RedisSettingsRepository) SaveSettingsSection(ctx context.Context, section domain.SettingsSection, values map[string]any) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode settings section %s: %w", section, err)
	}
	if err := r.store.rdb.HSet(ctx, settingsKey, string(section), raw).Err(); err != nil {
		return fmt.Errorf("failed to save settings section %s: %w", section, err)
	}
	return nil
}
