package ports

import (
	"context"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

// Channel identifies which surface created a parcel.
type Channel string

const (
	ChannelPublic Channel = "public"
	ChannelAdmin  Channel = "admin"
)

// CreateParcelInput carries a schedule request.
type CreateParcelInput struct {
	Sender        domain.Contact
	Receiver      domain.Contact
	ParcelDetails domain.ParcelDetails
	Channel       Channel
}

// UpdateParcelInput carries a partial update. Empty strings and a nil position
// mean "leave unchanged".
type UpdateParcelInput struct {
	Status          string
	Mode            string
	Notes           string
	CurrentPosition *domain.RoutePoint
}

// ParcelService is the parcel lifecycle use-case surface.
type ParcelService interface {
	Schedule(ctx context.Context, in CreateParcelInput) (*domain.Parcel, error)
	Track(ctx context.Context, trackingID string) (*domain.Parcel, error)
	List(ctx context.Context) ([]*domain.Parcel, error)
	Update(ctx context.Context, trackingID string, in UpdateParcelInput) (*domain.Parcel, error)
	ReplaceRoute(ctx context.Context, trackingID string, route []any) (*domain.Parcel, error)
	Delete(ctx context.Context, trackingID string) error
}

// ContactService accepts and lists contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]*domain.ContactMessage, error)
}
