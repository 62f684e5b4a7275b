package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

// SettingsService exposes the site settings. Only known keys are written.
type SettingsService struct {
	repo   ports.SettingsRepository
	logger zerolog.Logger
}

func NewSettingsService(repo ports.SettingsRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settings.Normalize(), nil
}

func (s *SettingsService) Update(ctx context.Context, values map[string]string) (domain.Settings, error) {
	accepted := make(domain.Settings, len(values))
	for k, v := range values {
		if !domain.IsSettingKey(k) {
			s.logger.Debug().Str("key", k).Msg("ignoring unknown setting")
			continue
		}
		accepted[k] = v
	}
	if len(accepted) == 0 {
		return s.Get(ctx)
	}

	settings, err := s.repo.Merge(ctx, accepted)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("keys", len(accepted)).Msg("settings updated")
	return settings.Normalize(), nil
}
