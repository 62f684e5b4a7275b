package domain

import (
	"errors"
	"time"
)

// ParcelStatus is the free-form lifecycle tag of a parcel. The statuses below
// carry a progress value; any other string is stored verbatim.
type ParcelStatus string

const (
	StatusPending        ParcelStatus = "pending"
	StatusPickedUp       ParcelStatus = "picked-up"
	StatusInTransit      ParcelStatus = "in-transit"
	StatusAtHub          ParcelStatus = "at-hub"
	StatusOutForDelivery ParcelStatus = "out-for-delivery"
	StatusDelivered      ParcelStatus = "delivered"
)

// ModeAuto is the mode of a freshly scheduled parcel. Mode is otherwise a
// free-form tag set by admins.
const ModeAuto = "auto"

// statusProgress maps a recognized status to its progress percentage.
var statusProgress = map[ParcelStatus]int{
	StatusPending:        0,
	StatusPickedUp:       20,
	StatusInTransit:      60,
	StatusAtHub:          80,
	StatusOutForDelivery: 90,
	StatusDelivered:      100,
}

var (
	ErrParcelNotFound = errors.New("tracking ID not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidRoute   = errors.New("invalid route data")
)

// Progress reports the progress percentage for s and whether s is recognized.
func (s ParcelStatus) Progress() (int, bool) {
	p, ok := statusProgress[s]
	return p, ok
}

// Contact is a sender or receiver of a parcel.
type Contact struct {
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
}

// ParcelDetails describes what is being shipped.
type ParcelDetails struct {
	Description  string             `json:"description" bson:"description"`
	Weight       string             `json:"weight" bson:"weight"`
	Dimensions   map[string]float64 `json:"dimensions" bson:"dimensions"`
	Value        float64            `json:"value" bson:"value"`
	Instructions string             `json:"instructions" bson:"instructions"`
	Photo        *string            `json:"photo" bson:"photo,omitempty"`
}

// RoutePoint is a geographic waypoint with an optional human label.
type RoutePoint struct {
	Lat   float64 `json:"lat" bson:"lat"`
	Lng   float64 `json:"lng" bson:"lng"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
}

// Waypoint renders p as a route element.
func (p RoutePoint) Waypoint() map[string]any {
	w := map[string]any{"lat": p.Lat, "lng": p.Lng}
	if p.Label != "" {
		w["label"] = p.Label
	}
	return w
}

// Waypoints renders a planned route as route elements.
func Waypoints(points []RoutePoint) []any {
	route := make([]any, 0, len(points))
	for _, p := range points {
		route = append(route, p.Waypoint())
	}
	return route
}

// HistoryEntry records a single status event on a parcel.
type HistoryEntry struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Location  string    `json:"location" bson:"location"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Parcel is the aggregate root keyed by its tracking code. Route elements are
// JSON values: planned routes hold lat/lng/label objects, a replaced route
// keeps whatever elements the admin sent.
type Parcel struct {
	ID              string         `json:"id" bson:"_id"`
	Sender          Contact        `json:"sender" bson:"sender"`
	Receiver        Contact        `json:"receiver" bson:"receiver"`
	ParcelDetails   ParcelDetails  `json:"parcelDetails" bson:"parcel_details"`
	Status          ParcelStatus   `json:"status" bson:"status"`
	Mode            string         `json:"mode" bson:"mode"`
	History         []HistoryEntry `json:"history" bson:"history"`
	Route           []any          `json:"route" bson:"route"`
	CurrentPosition *RoutePoint    `json:"currentPosition" bson:"current_position,omitempty"`
	ETA             time.Time      `json:"eta" bson:"eta"`
	CreatedAt       time.Time      `json:"createdAt" bson:"created_at"`
	EstimatedCost   *float64       `json:"estimatedCost,omitempty" bson:"estimated_cost,omitempty"`
	Progress        int            `json:"progress" bson:"progress"`
}

// ApplyStatus sets the status, appends a history entry and recomputes
// progress. An unrecognized status leaves progress unchanged.
func (p *Parcel) ApplyStatus(status ParcelStatus, at time.Time, notes string) {
	location := "Unknown"
	if p.CurrentPosition != nil && p.CurrentPosition.Label != "" {
		location = p.CurrentPosition.Label
	}
	if notes == "" {
		notes = "Status updated to " + string(status)
	}

	// History stays time-ordered even if the wall clock steps backwards.
	if n := len(p.History); n > 0 && at.Before(p.History[n-1].Timestamp) {
		at = p.History[n-1].Timestamp
	}

	p.Status = status
	p.History = append(p.History, HistoryEntry{
		Status:    string(status),
		Timestamp: at,
		Location:  location,
		Notes:     notes,
	})
	if progress, ok := status.Progress(); ok {
		p.Progress = progress
	}
}

// Clone returns a deep copy so callers never share slices or pointers with a store.
func (p *Parcel) Clone() *Parcel {
	if p == nil {
		return nil
	}
	c := *p
	c.History = append([]HistoryEntry(nil), p.History...)
	c.Route = cloneRoute(p.Route)
	if p.CurrentPosition != nil {
		pos := *p.CurrentPosition
		c.CurrentPosition = &pos
	}
	if p.EstimatedCost != nil {
		cost := *p.EstimatedCost
		c.EstimatedCost = &cost
	}
	if p.ParcelDetails.Dimensions != nil {
		c.ParcelDetails.Dimensions = make(map[string]float64, len(p.ParcelDetails.Dimensions))
		for k, v := range p.ParcelDetails.Dimensions {
			c.ParcelDetails.Dimensions[k] = v
		}
	}
	if p.ParcelDetails.Photo != nil {
		photo := *p.ParcelDetails.Photo
		c.ParcelDetails.Photo = &photo
	}
	return &c
}

func cloneRoute(route []any) []any {
	if route == nil {
		return nil
	}
	out := make([]any, len(route))
	for i, v := range route {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		return cloneRoute(t)
	default:
		return v
	}
}
