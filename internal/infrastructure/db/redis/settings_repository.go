package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

const settingsKey = keyPrefix + "settings"

// SettingsRepository keeps the site settings in a single Redis hash.
type SettingsRepository struct {
	client *redis.Client
}

func NewSettingsRepository(client *redis.Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	values, err := r.client.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("settings get: %w", err)
	}
	return domain.Settings(values), nil
}

func (r *SettingsRepository) Merge(ctx context.Context, values domain.Settings) (domain.Settings, error) {
	if len(values) > 0 {
		fields := make(map[string]interface{}, len(values))
		for k, v := range values {
			fields[k] = v
		}
		if err := r.client.HSet(ctx, settingsKey, fields).Err(); err != nil {
			return nil, fmt.Errorf("settings merge: %w", err)
		}
	}
	return r.Get(ctx)
}
