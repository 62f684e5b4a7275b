package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

type ContactHandler struct {
	contacts ports.ContactService
}

func NewContactHandler(contacts ports.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit stores a contact form message.
//
// @Summary      Submit the contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactFormRequest  true  "Contact message"
// @Success      200   {object}  contactFormResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactFormRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.contacts.Submit(c.Request().Context(), req.Name, req.Email, req.Message); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactFormResponse{Success: true, Message: "Contact form submitted successfully"})
}

// List returns every contact message.
//
// @Summary      List contact messages (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ContactMessage
// @Failure      401  {object}  errorResponse
// @Router       /api/admin/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	messages, err := h.contacts.List(c.Request().Context())
	if err != nil {
		return err
	}
	if messages == nil {
		messages = []*domain.ContactMessage{}
	}
	return c.JSON(http.StatusOK, messages)
}
