package ports

import (
	"context"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

// SettingsRepository stores the admin-managed key/value settings.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	// Merge writes the given keys and returns the full resulting settings.
	Merge(ctx context.Context, values domain.Settings) (domain.Settings, error)
}

type SettingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, values map[string]string) (domain.Settings, error)
}
