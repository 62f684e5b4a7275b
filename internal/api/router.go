package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/swiftify/logistics-api/docs"
	"github.com/swiftify/logistics-api/internal/api/handler"
	"github.com/swiftify/logistics-api/internal/api/middleware"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

// Services are the use cases the HTTP layer composes.
type Services struct {
	Parcels       ports.ParcelService
	Contacts      ports.ContactService
	Settings      ports.SettingsService
	Auth          ports.AuthService
	Notifications ports.NotificationService
	Health        *handler.HealthHandler
}

// Options tune the transport without touching the use cases.
type Options struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
	// MetricsRegisterer enables the echoprometheus middleware and /metrics.
	// Nil leaves HTTP metrics off, which keeps tests free of registry clashes.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	if len(opts.CORSAllowedOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     opts.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}
	if opts.MetricsRegisterer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "swiftify",
			Registerer: opts.MetricsRegisterer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Handlers ---
	parcelHandler := handler.NewParcelHandler(svc.Parcels)
	contactHandler := handler.NewContactHandler(svc.Contacts)
	settingsHandler := handler.NewSettingsHandler(svc.Settings)
	authHandler := handler.NewAuthHandler(svc.Auth)
	notificationHandler := handler.NewNotificationHandler(svc.Notifications)

	// --- Docs and probes (no auth required) ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if svc.Health != nil {
		e.GET("/", svc.Health.Root)
		e.GET("/api/health", svc.Health.Health)
		e.GET("/api/health/ready", svc.Health.Readiness)
	}

	// --- Public routes ---
	e.POST("/api/schedule", parcelHandler.Schedule)
	e.GET("/api/track/:trackingId", parcelHandler.Track)
	e.POST("/api/contact", contactHandler.Submit)
	e.POST("/api/notifications/email", notificationHandler.Email)
	e.POST("/api/notifications/sms", notificationHandler.SMS)
	e.POST("/api/admin/login", authHandler.Login)

	// --- Admin routes (bearer token with the admin claim) ---
	admin := e.Group("/api/admin", middleware.Auth(svc.Auth), middleware.RequireAdmin())
	admin.POST("/logout", authHandler.Logout)
	admin.GET("/parcels", parcelHandler.List)
	admin.POST("/orders", parcelHandler.CreateOrder)
	admin.PATCH("/parcel/:id", parcelHandler.Update)
	admin.PATCH("/parcel/:id/route", parcelHandler.ReplaceRoute)
	admin.DELETE("/parcel/:id", parcelHandler.Delete)
	admin.GET("/contacts", contactHandler.List)
	admin.GET("/settings", settingsHandler.Get)
	admin.PUT("/settings", settingsHandler.Update)
	admin.POST("/email", notificationHandler.AdminEmail)

	return e
}
