package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftify/logistics-api/internal/api/middleware"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. Absence means
// the route was mounted without it.
func ctxClaims(c echo.Context) (*ports.AdminClaims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*ports.AdminClaims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// bindAndValidate decodes the JSON body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
