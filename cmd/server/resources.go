package main

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/api/handler"
	"github.com/swiftify/logistics-api/internal/core/ports"
	"github.com/swiftify/logistics-api/internal/core/service"
	"github.com/swiftify/logistics-api/internal/infrastructure/config"
	"github.com/swiftify/logistics-api/internal/infrastructure/db/bolt"
	"github.com/swiftify/logistics-api/internal/infrastructure/db/memory"
	"github.com/swiftify/logistics-api/internal/infrastructure/db/mongo"
	"github.com/swiftify/logistics-api/internal/infrastructure/db/postgres"
	"github.com/swiftify/logistics-api/internal/infrastructure/db/redis"
	"github.com/swiftify/logistics-api/internal/infrastructure/messaging/kafka"
	"github.com/swiftify/logistics-api/internal/infrastructure/notify"
)

// resources holds every adapter chosen from configuration. Optional ones are
// nil when unconfigured or unreachable at startup; the API degrades to the
// process-local equivalents instead of refusing to start.
type resources struct {
	durable       ports.DurableStore
	localParcels  ports.ParcelRepository
	localContacts ports.ContactRepository
	settings      ports.SettingsRepository
	revocations   ports.RevocationStore
	redis         *goredis.Client
	email         ports.EmailSender
	sms           ports.SMSSender
	publisher     *kafka.Publisher

	closers []func(context.Context) error
}

func openResources(ctx context.Context, cfg *config.Config, log zerolog.Logger) *resources {
	res := &resources{}
	res.openDurable(ctx, cfg, log)
	res.openLocal(cfg, log)
	res.openRedis(ctx, cfg, log)

	if cfg.EmailEnabled() {
		res.email = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	if cfg.SMSEnabled() {
		res.sms = notify.NewTwilioSender(notify.TwilioConfig{
			AccountSID:  cfg.Twilio.AccountSID,
			AuthToken:   cfg.Twilio.AuthToken,
			PhoneNumber: cfg.Twilio.PhoneNumber,
			Edge:        cfg.Twilio.Edge,
		})
	}
	if len(cfg.Kafka.Brokers) > 0 {
		res.publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		res.closers = append(res.closers, func(context.Context) error { return res.publisher.Close() })
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing parcel events to kafka")
	}

	return res
}

func (r *resources) openDurable(ctx context.Context, cfg *config.Config, log zerolog.Logger) {
	switch cfg.Store.External {
	case config.StoreMongo:
		s, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Warn().Err(err).Msg("mongo unavailable, running on the local store only")
			return
		}
		r.durable = s
		r.closers = append(r.closers, s.Close)
	case config.StorePostgres:
		s, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, running on the local store only")
			return
		}
		r.durable = s
		r.closers = append(r.closers, func(context.Context) error { s.Close(); return nil })
	default:
		return
	}
	log.Info().Str("store", r.durable.Name()).Msg("durable store connected")
}

func (r *resources) openLocal(cfg *config.Config, log zerolog.Logger) {
	if cfg.Store.LocalPath != "" {
		db, err := bolt.Open(cfg.Store.LocalPath)
		if err == nil {
			r.localParcels = db.Parcels()
			r.localContacts = db.Contacts()
			r.closers = append(r.closers, func(context.Context) error { return db.Close() })
			log.Info().Str("path", cfg.Store.LocalPath).Msg("local store on disk")
			return
		}
		log.Warn().Err(err).Str("path", cfg.Store.LocalPath).Msg("local store file unavailable, using memory")
	}
	r.localParcels = memory.NewParcelStore()
	r.localContacts = memory.NewContactStore()
}

func (r *resources) openRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) {
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			r.redis = client
			r.settings = redis.NewSettingsRepository(client)
			r.revocations = redis.NewRevocationList(client)
			r.closers = append(r.closers, func(context.Context) error { return client.Close() })
			return
		}
		log.Warn().Err(err).Msg("redis unavailable, keeping settings and revocations in memory")
	}
	r.settings = memory.NewSettingsStore()
	r.revocations = memory.NewRevocationList()
}

func (r *resources) durableParcels() ports.ParcelRepository {
	if r.durable == nil {
		return nil
	}
	return r.durable.Parcels()
}

func (r *resources) durableContacts() ports.ContactRepository {
	if r.durable == nil {
		return nil
	}
	return r.durable.Contacts()
}

func (r *resources) eventHandlers(notifications ports.NotificationService, publicBaseURL string) []ports.EventHandler {
	handlers := []ports.EventHandler{service.NewLifecycleNotifier(notifications, publicBaseURL)}
	if r.publisher != nil {
		handlers = append(handlers, r.publisher)
	}
	return handlers
}

func (r *resources) probes() map[string]handler.Probe {
	probes := map[string]handler.Probe{}
	if r.durable != nil {
		probes[r.durable.Name()] = r.durable.Ping
	}
	if r.redis != nil {
		probes["redis"] = func(ctx context.Context) error { return r.redis.Ping(ctx).Err() }
	}
	return probes
}

func (r *resources) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("failed to release resource")
		}
	}
}
