package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftify/logistics-api/internal/core/ports"
)

// NotificationHandler exposes direct email and SMS dispatch. Delivery is best
// effort; the outcome is reported as success and never as an error status.
type NotificationHandler struct {
	notifier ports.NotificationService
}

func NewNotificationHandler(notifier ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// AdminEmail sends an ad hoc email from the admin panel.
//
// @Summary      Send an email (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      adminEmailRequest  true  "Recipient, subject and message"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/admin/email [post]
func (h *NotificationHandler) AdminEmail(c echo.Context) error {
	var req adminEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing email, subject or message")
	}

	ok := h.notifier.Email(c.Request().Context(), req.Email, req.Subject, req.Message)
	return c.JSON(http.StatusOK, successResponse{Success: ok})
}

// Email sends a notification email.
//
// @Summary      Send an email notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        body  body      emailNotificationRequest  true  "Recipient, title and message"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/notifications/email [post]
func (h *NotificationHandler) Email(c echo.Context) error {
	var req emailNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok := h.notifier.Email(c.Request().Context(), req.Email, req.Title, req.Message)
	return c.JSON(http.StatusOK, successResponse{Success: ok})
}

// SMS sends a text message.
//
// @Summary      Send an SMS notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        body  body      smsNotificationRequest  true  "Phone number and message"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/notifications/sms [post]
func (h *NotificationHandler) SMS(c echo.Context) error {
	var req smsNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok := h.notifier.SMS(c.Request().Context(), req.Phone, req.Message)
	return c.JSON(http.StatusOK, successResponse{Success: ok})
}
