package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

type ParcelHandler struct {
	parcels ports.ParcelService
}

func NewParcelHandler(parcels ports.ParcelService) *ParcelHandler {
	return &ParcelHandler{parcels: parcels}
}

// Schedule creates a parcel from the public booking form.
//
// @Summary      Schedule a delivery
// @Tags         parcels
// @Accept       json
// @Produce      json
// @Param        body  body      scheduleRequest  true  "Sender, receiver and parcel details"
// @Success      200   {object}  scheduleResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/schedule [post]
func (h *ParcelHandler) Schedule(c echo.Context) error {
	return h.create(c, ports.ChannelPublic)
}

// CreateOrder creates a parcel on behalf of a customer. No confirmation email is sent.
//
// @Summary      Create an order (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      scheduleRequest  true  "Sender, receiver and parcel details"
// @Success      200   {object}  scheduleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/admin/orders [post]
func (h *ParcelHandler) CreateOrder(c echo.Context) error {
	return h.create(c, ports.ChannelAdmin)
}

func (h *ParcelHandler) create(c echo.Context, channel ports.Channel) error {
	var req scheduleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	parcel, err := h.parcels.Schedule(c.Request().Context(), toCreateInput(req, channel))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scheduleResponse{TrackingID: parcel.ID})
}

// Track returns the full parcel record for a tracking code.
//
// @Summary      Track a parcel
// @Tags         parcels
// @Produce      json
// @Param        trackingId  path      string  true  "Tracking code"
// @Success      200         {object}  domain.Parcel
// @Failure      404         {object}  errorResponse
// @Router       /api/track/{trackingId} [get]
func (h *ParcelHandler) Track(c echo.Context) error {
	parcel, err := h.parcels.Track(c.Request().Context(), c.Param("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, parcel)
}

// List returns every parcel.
//
// @Summary      List parcels (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Parcel
// @Failure      401  {object}  errorResponse
// @Router       /api/admin/parcels [get]
func (h *ParcelHandler) List(c echo.Context) error {
	parcels, err := h.parcels.List(c.Request().Context())
	if err != nil {
		return err
	}
	if parcels == nil {
		parcels = []*domain.Parcel{}
	}
	return c.JSON(http.StatusOK, parcels)
}

// Update applies a partial update to a parcel.
//
// @Summary      Update a parcel (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Tracking code"
// @Param        body  body      updateParcelRequest  true  "Fields to change"
// @Success      200   {object}  domain.Parcel
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/parcel/{id} [patch]
func (h *ParcelHandler) Update(c echo.Context) error {
	var req updateParcelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.UpdateParcelInput{
		Status: req.Status,
		Mode:   req.Mode,
		Notes:  req.Notes,
	}
	if req.CurrentPosition != nil {
		pos := toRoutePoint(*req.CurrentPosition)
		in.CurrentPosition = &pos
	}

	parcel, err := h.parcels.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, parcel)
}

// ReplaceRoute swaps the planned route of a parcel.
//
// @Summary      Replace a parcel route (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Tracking code"
// @Param        body  body      routeRequest  true  "New route"
// @Success      200   {object}  domain.Parcel
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/parcel/{id}/route [patch]
func (h *ParcelHandler) ReplaceRoute(c echo.Context) error {
	var req routeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// Anything but a JSON array becomes an empty route; the service
	// reports a missing parcel before it rejects the route.
	parcel, err := h.parcels.ReplaceRoute(c.Request().Context(), c.Param("id"), decodeRoute(req.Route))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, parcel)
}

// Delete removes a parcel.
//
// @Summary      Delete a parcel (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tracking code"
// @Success      200  {object}  detailResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/parcel/{id} [delete]
func (h *ParcelHandler) Delete(c echo.Context) error {
	err := h.parcels.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrParcelNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Parcel not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "Parcel deleted"})
}

// decodeRoute accepts any JSON array and keeps its elements untouched.
func decodeRoute(raw json.RawMessage) []any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var route []any
	if err := json.Unmarshal(raw, &route); err != nil {
		return nil
	}
	return route
}

func toRoutePoint(p routePointRequest) domain.RoutePoint {
	return domain.RoutePoint{Lat: p.Lat, Lng: p.Lng, Label: p.Label}
}

func toContact(c contactRequest) domain.Contact {
	return domain.Contact{Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
}

func toCreateInput(req scheduleRequest, channel ports.Channel) ports.CreateParcelInput {
	d := req.ParcelDetails
	details := domain.ParcelDetails{
		Description:  d.Description,
		Weight:       d.Weight,
		Dimensions:   d.Dimensions,
		Instructions: d.Instructions,
		Photo:        d.Photo,
	}
	if d.Value != nil {
		details.Value = *d.Value
	}
	return ports.CreateParcelInput{
		Sender:        toContact(req.Sender),
		Receiver:      toContact(req.Receiver),
		ParcelDetails: details,
		Channel:       channel,
	}
}
