package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreNone     = ""
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	Port      string `env:"PORT,       default=8000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	SecretKey     string        `env:"SECRET_KEY, required"`
	AdminKey      string        `env:"ADMIN_KEY,  required"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL, default=24h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=https://swiftifydel.netlify.app,http://localhost:5173,http://127.0.0.1:5173"`
	PublicBaseURL      string   `env:"PUBLIC_BASE_URL,      default=https://swiftifydel.netlify.app"`

	Features FeatureConfig
	SMTP     SMTPConfig
	Twilio   TwilioConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Events   EventConfig
}

type FeatureConfig struct {
	Email      bool `env:"ENABLE_EMAIL_NOTIFICATIONS, default=false"`
	SMS        bool `env:"ENABLE_SMS_NOTIFICATIONS,   default=false"`
	GoogleMaps bool `env:"ENABLE_GOOGLE_MAPS,         default=false"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

type TwilioConfig struct {
	AccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	PhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
	Edge        string `env:"TWILIO_EDGE"`
}

type StoreConfig struct {
	// External selects the durable tier: "", "mongo" or "postgres".
	External string `env:"EXTERNAL_STORE"`
	// LocalPath switches the local tier from memory to a Bolt file.
	LocalPath string `env:"LOCAL_STORE_PATH"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=swiftify"`
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC, default=parcel-events"`
}

type EventConfig struct {
	Workers   int `env:"EVENT_WORKERS,    default=4"`
	QueueSize int `env:"EVENT_QUEUE_SIZE, default=256"`
}

// EmailEnabled reports whether the email feature is on and SMTP is configured.
func (c *Config) EmailEnabled() bool {
	return c.Features.Email && c.SMTP.Host != "" && c.SMTP.From != ""
}

// SMSEnabled reports whether the SMS feature is on and Twilio is configured.
func (c *Config) SMSEnabled() bool {
	return c.Features.SMS && c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.PhoneNumber != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Store.External = strings.ToLower(strings.TrimSpace(c.Store.External))
	switch c.Store.External {
	case StoreNone:
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("EXTERNAL_STORE=mongo requires MONGO_URI")
		}
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("EXTERNAL_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown EXTERNAL_STORE %q", c.Store.External)
	}
	if c.Events.Workers <= 0 {
		return fmt.Errorf("EVENT_WORKERS must be positive")
	}
	if c.Events.QueueSize <= 0 {
		return fmt.Errorf("EVENT_QUEUE_SIZE must be positive")
	}
	return nil
}
