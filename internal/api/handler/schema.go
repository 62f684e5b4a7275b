package handler

import (
	"encoding/json"
	"time"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// --- Request / Response types ---

type contactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"required"`
	Address string `json:"address" validate:"required"`
}

type parcelDetailsRequest struct {
	Description  string             `json:"description"  validate:"required"`
	Weight       string             `json:"weight"       validate:"required"`
	Dimensions   map[string]float64 `json:"dimensions"   validate:"required"`
	Value        *float64           `json:"value"        validate:"required"`
	Instructions string             `json:"instructions"`
	Photo        *string            `json:"photo"`
}

type scheduleRequest struct {
	Sender        contactRequest       `json:"sender"`
	Receiver      contactRequest       `json:"receiver"`
	ParcelDetails parcelDetailsRequest `json:"parcelDetails"`
}

type scheduleResponse struct {
	TrackingID string `json:"trackingId"`
}

type routePointRequest struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

type updateParcelRequest struct {
	Status          string             `json:"status"`
	Mode            string             `json:"mode"`
	Notes           string             `json:"notes"`
	CurrentPosition *routePointRequest `json:"currentPosition"`
}

// routeRequest keeps the route raw so a non-list value surfaces as invalid
// route data instead of a bind failure.
type routeRequest struct {
	Route json.RawMessage `json:"route"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// loginRequest leaves the key unvalidated; an empty key is a mismatch.
type loginRequest struct {
	Key string `json:"key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type contactFormRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

type contactFormResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type adminEmailRequest struct {
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type emailNotificationRequest struct {
	Email   string `json:"email"   validate:"required,email"`
	Title   string `json:"title"   validate:"required"`
	Message string `json:"message" validate:"required"`
}

type smsNotificationRequest struct {
	Phone   string `json:"phone"   validate:"required"`
	Message string `json:"message" validate:"required"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type healthServices struct {
	Email      bool `json:"email"`
	SMS        bool `json:"sms"`
	GoogleMaps bool `json:"google_maps"`
	Database   bool `json:"database"`
}

type healthResponse struct {
	Status        string         `json:"status"`
	Timestamp     time.Time      `json:"timestamp"`
	ParcelsCount  int            `json:"parcels_count"`
	MessagesCount int            `json:"messages_count"`
	Services      healthServices `json:"services"`
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}
