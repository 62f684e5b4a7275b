package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/swiftify/logistics-api/internal/core/ports"
)

const apiVersion = "1.0.0"

// Probe checks one external dependency.
type Probe func(ctx context.Context) error

// ServiceFlags reports which optional integrations are switched on.
type ServiceFlags struct {
	Email      bool
	SMS        bool
	GoogleMaps bool
	Database   bool
}

// HealthHandler serves the root banner, the health summary and the readiness probe.
type HealthHandler struct {
	parcels  ports.ParcelRepository
	contacts ports.ContactRepository
	flags    ServiceFlags
	probes   map[string]Probe
	now      func() time.Time
}

func NewHealthHandler(parcels ports.ParcelRepository, contacts ports.ContactRepository, flags ServiceFlags, probes map[string]Probe) *HealthHandler {
	return &HealthHandler{
		parcels:  parcels,
		contacts: contacts,
		flags:    flags,
		probes:   probes,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Root godoc
//
// @Summary      API banner
// @Tags         health
// @Produce      json
// @Success      200  {object}  rootResponse
// @Router       / [get]
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, rootResponse{
		Message: "Swiftify Logistics API",
		Version: apiVersion,
		Status:  "operational",
	})
}

// Health reports record counts and the enabled integrations.
//
// @Summary      Health summary
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /api/health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	parcels, err := h.parcels.Count(ctx)
	if err != nil {
		return err
	}
	messages, err := h.contacts.Count(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, healthResponse{
		Status:        "healthy",
		Timestamp:     h.now(),
		ParcelsCount:  parcels,
		MessagesCount: messages,
		Services: healthServices{
			Email:      h.flags.Email,
			SMS:        h.flags.SMS,
			GoogleMaps: h.flags.GoogleMaps,
			Database:   h.flags.Database,
		},
	})
}

// Readiness pings every configured dependency.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /api/health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.probes))
	healthy := true

	for name, probe := range h.probes {
		if err := probe(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
