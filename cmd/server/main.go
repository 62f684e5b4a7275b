package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swiftify/logistics-api/internal/api"
	"github.com/swiftify/logistics-api/internal/api/handler"
	"github.com/swiftify/logistics-api/internal/core/service"
	"github.com/swiftify/logistics-api/internal/infrastructure/config"
	"github.com/swiftify/logistics-api/internal/infrastructure/queue"
	"github.com/swiftify/logistics-api/internal/infrastructure/store"
	"github.com/swiftify/logistics-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// main is the composition root: it loads configuration, picks the storage
// tiers and side-effect adapters, and serves the API until SIGINT/SIGTERM.
//
//	@title						Swiftify Logistics API
//	@version					1.0.0
//	@description				Parcel scheduling, tracking and admin management.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the admin token.
func main() {
	envFileErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "swiftify-api"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "swiftify-api",
		Env:     cfg.Env,
	})
	if envFileErr != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	res := openResources(ctx, cfg, log)
	defer res.close(log)

	parcels := store.NewTieredParcels(res.durableParcels(), res.localParcels, logger.Component("parcel_store"))
	contacts := store.NewTieredContacts(res.durableContacts(), res.localContacts, logger.Component("contact_store"))

	notifications := service.NewNotificationService(res.email, res.sms, logger.Component("notifications"))
	dispatcher := queue.NewDispatcher(
		cfg.Events.Workers,
		cfg.Events.QueueSize,
		logger.Component("dispatcher"),
		res.eventHandlers(notifications, cfg.PublicBaseURL)...,
	)
	dispatcher.Start(context.WithoutCancel(ctx))

	services := api.Services{
		Parcels: service.NewParcelService(
			parcels,
			service.StaticRouteProvider{},
			service.WeightCostEstimator{},
			service.NewTrackingIDGenerator(),
			dispatcher,
			logger.Component("parcels"),
		),
		Contacts:      service.NewContactService(contacts, dispatcher, logger.Component("contacts")),
		Settings:      service.NewSettingsService(res.settings, logger.Component("settings")),
		Auth:          service.NewAuthService(cfg.AdminKey, cfg.SecretKey, cfg.AdminTokenTTL, res.revocations, logger.Component("auth")),
		Notifications: notifications,
		Health: handler.NewHealthHandler(parcels, contacts, handler.ServiceFlags{
			Email:      cfg.EmailEnabled(),
			SMS:        cfg.SMSEnabled(),
			GoogleMaps: cfg.Features.GoogleMaps,
			Database:   res.durable != nil,
		}, res.probes()),
	}

	e := api.NewRouter(services, api.Options{
		Logger:             log,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsRegisterer:  prometheus.DefaultRegisterer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("event dispatcher did not drain in time")
	}
}
