// Package store composes an optional durable tier with a local tier.
//
// Writes go to the durable tier first and are always mirrored locally, so a
// write is only lost when the local tier itself fails. Reads prefer the
// durable tier and fall back to the local one on a miss or an error.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
	"github.com/swiftify/logistics-api/internal/pkg/metrics"
)

const (
	collectionParcels  = "parcels"
	collectionContacts = "contact_messages"
)

// TieredParcels implements ports.ParcelRepository over two tiers. durable may be nil.
type TieredParcels struct {
	durable ports.ParcelRepository
	local   ports.ParcelRepository
	logger  zerolog.Logger
}

func NewTieredParcels(durable, local ports.ParcelRepository, logger zerolog.Logger) *TieredParcels {
	return &TieredParcels{durable: durable, local: local, logger: logger}
}

func (t *TieredParcels) Save(ctx context.Context, p *domain.Parcel) error {
	var durableErr error
	if t.durable != nil {
		if durableErr = t.durable.Save(ctx, p); durableErr != nil {
			fallback(t.logger, collectionParcels, "save", durableErr).Str("tracking_id", p.ID).Msg("durable save failed, keeping local copy")
		}
	}

	if err := t.local.Save(ctx, p); err != nil {
		if t.durable == nil || durableErr != nil {
			return fmt.Errorf("save parcel %s: %w", p.ID, errors.Join(durableErr, err))
		}
		t.logger.Warn().Err(err).Str("tracking_id", p.ID).Msg("local mirror failed")
	}
	return nil
}

func (t *TieredParcels) FindByID(ctx context.Context, id string) (*domain.Parcel, error) {
	if t.durable != nil {
		p, err := t.durable.FindByID(ctx, id)
		switch {
		case err == nil:
			return p, nil
		case !errors.Is(err, domain.ErrParcelNotFound):
			fallback(t.logger, collectionParcels, "find", err).Str("tracking_id", id).Msg("durable read failed, serving local copy")
		}
	}
	return t.local.FindByID(ctx, id)
}

// List merges both tiers: durable records win, local-only records are
// appended, and the result is ordered by creation time.
func (t *TieredParcels) List(ctx context.Context) ([]*domain.Parcel, error) {
	local, err := t.local.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local parcels: %w", err)
	}
	if t.durable == nil {
		return local, nil
	}

	durable, err := t.durable.List(ctx)
	if err != nil {
		fallback(t.logger, collectionParcels, "list", err).Msg("durable list failed, serving local copy")
		return local, nil
	}

	seen := make(map[string]struct{}, len(durable))
	merged := make([]*domain.Parcel, 0, len(durable)+len(local))
	for _, p := range durable {
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range local {
		if _, ok := seen[p.ID]; !ok {
			merged = append(merged, p)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].CreatedAt.Before(merged[j].CreatedAt) })
	return merged, nil
}

// Delete removes the record from the local tier and best-effort from the
// durable one. Not found in either tier is domain.ErrParcelNotFound.
func (t *TieredParcels) Delete(ctx context.Context, id string) error {
	localErr := t.local.Delete(ctx, id)
	if localErr != nil && !errors.Is(localErr, domain.ErrParcelNotFound) {
		return fmt.Errorf("delete parcel %s: %w", id, localErr)
	}
	found := localErr == nil

	if t.durable != nil {
		err := t.durable.Delete(ctx, id)
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, domain.ErrParcelNotFound):
			fallback(t.logger, collectionParcels, "delete", err).Str("tracking_id", id).Msg("durable delete failed")
		}
	}

	if !found {
		return domain.ErrParcelNotFound
	}
	return nil
}

// Count reports the local tier, which mirrors every write made by this process.
func (t *TieredParcels) Count(ctx context.Context) (int, error) {
	return t.local.Count(ctx)
}

// TieredContacts implements ports.ContactRepository over two tiers. durable may be nil.
type TieredContacts struct {
	durable ports.ContactRepository
	local   ports.ContactRepository
	logger  zerolog.Logger
}

func NewTieredContacts(durable, local ports.ContactRepository, logger zerolog.Logger) *TieredContacts {
	return &TieredContacts{durable: durable, local: local, logger: logger}
}

func (t *TieredContacts) Append(ctx context.Context, m *domain.ContactMessage) error {
	var durableErr error
	if t.durable != nil {
		if durableErr = t.durable.Append(ctx, m); durableErr != nil {
			fallback(t.logger, collectionContacts, "save", durableErr).Str("contact_id", m.ID).Msg("durable append failed, keeping local copy")
		}
	}

	if err := t.local.Append(ctx, m); err != nil {
		if t.durable == nil || durableErr != nil {
			return fmt.Errorf("append contact %s: %w", m.ID, errors.Join(durableErr, err))
		}
		t.logger.Warn().Err(err).Str("contact_id", m.ID).Msg("local mirror failed")
	}
	return nil
}

func (t *TieredContacts) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	local, err := t.local.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local contacts: %w", err)
	}
	if t.durable == nil {
		return local, nil
	}

	durable, err := t.durable.List(ctx)
	if err != nil {
		fallback(t.logger, collectionContacts, "list", err).Msg("durable list failed, serving local copy")
		return local, nil
	}

	seen := make(map[string]struct{}, len(durable))
	merged := make([]*domain.ContactMessage, 0, len(durable)+len(local))
	for _, m := range durable {
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}
	for _, m := range local {
		if _, ok := seen[m.ID]; !ok {
			merged = append(merged, m)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Timestamp.Before(merged[j].Timestamp) })
	return merged, nil
}

func (t *TieredContacts) Count(ctx context.Context) (int, error) {
	return t.local.Count(ctx)
}

func fallback(logger zerolog.Logger, collection, op string, err error) *zerolog.Event {
	metrics.StoreFallbackTotal.WithLabelValues(collection, op).Inc()
	return logger.Warn().Err(err).Str("collection", collection).Str("op", op)
}
