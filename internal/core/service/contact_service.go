package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

// ContactService stores contact form submissions.
type ContactService struct {
	repo   ports.ContactRepository
	events ports.EventEmitter
	logger zerolog.Logger
	now    func() time.Time
}

func NewContactService(repo ports.ContactRepository, events ports.EventEmitter, logger zerolog.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContactService) Submit(ctx context.Context, name, email, message string) (*domain.ContactMessage, error) {
	if name == "" || email == "" || message == "" {
		return nil, domain.ErrInvalidInput
	}

	msg := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		Timestamp: s.now(),
		Status:    domain.ContactStatusNew,
	}
	if err := s.repo.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("submit contact: %w", err)
	}

	snapshot := *msg
	s.events.Emit(ports.Event{
		Kind:       ports.EventContactReceived,
		Key:        msg.ID,
		Contact:    &snapshot,
		OccurredAt: msg.Timestamp,
	})
	s.logger.Info().Str("contact_id", msg.ID).Msg("contact message received")
	return msg, nil
}

func (s *ContactService) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	return s.repo.List(ctx)
}
