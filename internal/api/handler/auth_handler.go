package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftify/logistics-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges the admin key for a signed token.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin key"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

// Logout revokes the token used on this request.
//
// @Summary      Admin logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  detailResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/admin/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.authService.Revoke(c.Request().Context(), claims); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "Logged out"})
}
