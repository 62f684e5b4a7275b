package ports

import (
	"context"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

// ParcelRepository persists parcels keyed by tracking code. Save is an upsert.
// Implemented by every tier: the durable stores, the local fallback and the
// tiered gateway that composes them.
type ParcelRepository interface {
	Save(ctx context.Context, p *domain.Parcel) error
	// FindByID returns domain.ErrParcelNotFound when the code is unknown.
	FindByID(ctx context.Context, id string) (*domain.Parcel, error)
	// List returns every parcel ordered by creation time.
	List(ctx context.Context) ([]*domain.Parcel, error)
	// Delete returns domain.ErrParcelNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ContactRepository is the append-only contact message collection.
type ContactRepository interface {
	Append(ctx context.Context, m *domain.ContactMessage) error
	List(ctx context.Context) ([]*domain.ContactMessage, error)
	Count(ctx context.Context) (int, error)
}

// DurableStore is the external networked backend behind the tiered gateway.
type DurableStore interface {
	Parcels() ParcelRepository
	Contacts() ContactRepository
	Ping(ctx context.Context) error
	Name() string
}
