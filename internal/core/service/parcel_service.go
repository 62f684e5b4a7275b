package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
	"github.com/swiftify/logistics-api/internal/pkg/metrics"
)

const (
	etaOffset       = 48 * time.Hour
	idAttempts      = 3
	lockStripes     = 32
	scheduledStatus = "Package scheduled"
	scheduledNotes  = "Package scheduled for pickup"
)

var errTrackingIDExhausted = errors.New("could not allocate a unique tracking id")

// ParcelService owns the parcel record shape and its status-driven transitions.
type ParcelService struct {
	repo   ports.ParcelRepository
	routes ports.RouteProvider
	costs  ports.CostEstimator
	ids    ports.IDGenerator
	events ports.EventEmitter
	logger zerolog.Logger
	now    func() time.Time

	// Updates to one tracking code are serialized inside the process.
	locks [lockStripes]sync.Mutex
}

func NewParcelService(
	repo ports.ParcelRepository,
	routes ports.RouteProvider,
	costs ports.CostEstimator,
	ids ports.IDGenerator,
	events ports.EventEmitter,
	logger zerolog.Logger,
) *ParcelService {
	return &ParcelService{
		repo:   repo,
		routes: routes,
		costs:  costs,
		ids:    ids,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Schedule creates a pending parcel with a planned route, cost and ETA.
func (s *ParcelService) Schedule(ctx context.Context, in ports.CreateParcelInput) (*domain.Parcel, error) {
	id, err := s.allocateTrackingID(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule parcel: %w", err)
	}

	route := s.routes.Route(in.Sender.Address, in.Receiver.Address)
	if len(route) == 0 {
		route = StaticRouteProvider{}.Route("", "")
	}
	start := route[0]
	cost := roundCents(s.costs.Estimate(in.ParcelDetails.Weight))
	origin, _, _ := strings.Cut(in.Sender.Address, ",")

	now := s.now()
	parcel := &domain.Parcel{
		ID:            id,
		Sender:        in.Sender,
		Receiver:      in.Receiver,
		ParcelDetails: in.ParcelDetails,
		Status:        domain.StatusPending,
		Mode:          domain.ModeAuto,
		History: []domain.HistoryEntry{{
			Status:    scheduledStatus,
			Timestamp: now,
			Location:  origin,
			Notes:     scheduledNotes,
		}},
		Route:           domain.Waypoints(route),
		CurrentPosition: &start,
		ETA:             now.Add(etaOffset),
		CreatedAt:       now,
		EstimatedCost:   &cost,
		Progress:        0,
	}

	if err := s.repo.Save(ctx, parcel); err != nil {
		s.logger.Error().Err(err).Str("tracking_id", id).Msg("failed to save parcel")
		return nil, fmt.Errorf("schedule parcel: %w", err)
	}

	channel := in.Channel
	if channel == "" {
		channel = ports.ChannelPublic
	}
	metrics.ParcelsCreatedTotal.WithLabelValues(string(channel)).Inc()
	s.emit(ports.EventParcelCreated, parcel, channel)

	s.logger.Info().
		Str("tracking_id", id).
		Str("channel", string(channel)).
		Float64("estimated_cost", cost).
		Int("route_points", len(route)).
		Msg("parcel scheduled")

	return parcel, nil
}

// Track returns the parcel for a tracking code.
func (s *ParcelService) Track(ctx context.Context, trackingID string) (*domain.Parcel, error) {
	return s.repo.FindByID(ctx, trackingID)
}

// List returns every parcel.
func (s *ParcelService) List(ctx context.Context) ([]*domain.Parcel, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. A status appends a history entry and
// recomputes progress; mode and position are overwritten as given.
func (s *ParcelService) Update(ctx context.Context, trackingID string, in ports.UpdateParcelInput) (*domain.Parcel, error) {
	unlock := s.lock(trackingID)
	defer unlock()

	parcel, err := s.repo.FindByID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	if in.Status != "" {
		status := domain.ParcelStatus(in.Status)
		parcel.ApplyStatus(status, s.now(), in.Notes)
		label := in.Status
		if _, ok := status.Progress(); !ok {
			label = "other"
		}
		metrics.ParcelStatusUpdatesTotal.WithLabelValues(label).Inc()
	}
	if in.Mode != "" {
		parcel.Mode = in.Mode
	}
	if in.CurrentPosition != nil {
		pos := *in.CurrentPosition
		parcel.CurrentPosition = &pos
	}

	if err := s.repo.Save(ctx, parcel); err != nil {
		return nil, fmt.Errorf("update parcel: %w", err)
	}

	if in.Status != "" {
		s.emit(ports.EventParcelStatusChanged, parcel, "")
		s.logger.Info().
			Str("tracking_id", trackingID).
			Str("status", in.Status).
			Int("progress", parcel.Progress).
			Msg("parcel status updated")
	}

	return parcel, nil
}

// ReplaceRoute swaps the whole planned route. The route must not be empty;
// its elements are stored as given.
func (s *ParcelService) ReplaceRoute(ctx context.Context, trackingID string, route []any) (*domain.Parcel, error) {
	unlock := s.lock(trackingID)
	defer unlock()

	parcel, err := s.repo.FindByID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if len(route) == 0 {
		return nil, domain.ErrInvalidRoute
	}

	parcel.Route = append([]any(nil), route...)
	if err := s.repo.Save(ctx, parcel); err != nil {
		return nil, fmt.Errorf("replace route: %w", err)
	}

	s.emit(ports.EventParcelRouteUpdated, parcel, "")
	s.logger.Info().Str("tracking_id", trackingID).Int("route_points", len(route)).Msg("parcel route replaced")
	return parcel, nil
}

// Delete removes a parcel. Unknown codes yield domain.ErrParcelNotFound.
func (s *ParcelService) Delete(ctx context.Context, trackingID string) error {
	unlock := s.lock(trackingID)
	defer unlock()

	if err := s.repo.Delete(ctx, trackingID); err != nil {
		return err
	}

	s.events.Emit(ports.Event{Kind: ports.EventParcelDeleted, Key: trackingID, OccurredAt: s.now()})
	s.logger.Info().Str("tracking_id", trackingID).Msg("parcel deleted")
	return nil
}

// allocateTrackingID regenerates on the rare collision with a stored parcel.
func (s *ParcelService) allocateTrackingID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < idAttempts; attempt++ {
		id := s.ids.NewTrackingID()
		_, err := s.repo.FindByID(ctx, id)
		switch {
		case errors.Is(err, domain.ErrParcelNotFound):
			return id, nil
		case err != nil:
			// The store cannot answer; accept the generator's odds.
			s.logger.Warn().Err(err).Str("tracking_id", id).Msg("tracking id collision check failed")
			return id, nil
		}
		s.logger.Warn().Str("tracking_id", id).Msg("tracking id collision, regenerating")
	}
	return "", errTrackingIDExhausted
}

func (s *ParcelService) emit(kind ports.EventKind, parcel *domain.Parcel, channel ports.Channel) {
	s.events.Emit(ports.Event{
		Kind:       kind,
		Key:        parcel.ID,
		Channel:    channel,
		Parcel:     parcel.Clone(),
		OccurredAt: s.now(),
	})
}

func (s *ParcelService) lock(trackingID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingID))
	m := &s.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
