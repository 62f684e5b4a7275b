package ports

import "github.com/swiftify/logistics-api/internal/core/domain"

// RouteProvider chooses the planned route between two free-text addresses.
// Implementations must return at least one point.
type RouteProvider interface {
	Route(senderAddress, receiverAddress string) []domain.RoutePoint
}

// CostEstimator prices a parcel from its declared weight class.
type CostEstimator interface {
	Estimate(weightClass string) float64
}

// IDGenerator produces tracking codes.
type IDGenerator interface {
	NewTrackingID() string
}
