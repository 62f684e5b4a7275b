package ports

import (
	"context"
	"time"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

// EventKind names a lifecycle event.
type EventKind string

const (
	EventParcelCreated       EventKind = "parcel.created"
	EventParcelStatusChanged EventKind = "parcel.status_changed"
	EventParcelRouteUpdated  EventKind = "parcel.route_updated"
	EventParcelDeleted       EventKind = "parcel.deleted"
	EventContactReceived     EventKind = "contact.received"
)

// Event is a snapshot handed to asynchronous side effects.
type Event struct {
	Kind       EventKind              `json:"kind"`
	Key        string                 `json:"key"`
	Channel    Channel                `json:"channel,omitempty"`
	Parcel     *domain.Parcel         `json:"parcel,omitempty"`
	Contact    *domain.ContactMessage `json:"contact,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// EventEmitter accepts events without blocking the caller.
type EventEmitter interface {
	Emit(event Event)
}

// EventHandler consumes events on a dispatcher worker.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
}
