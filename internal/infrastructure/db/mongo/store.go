// Package mongo is the document durable tier: one collection per record kind,
// parcels keyed by tracking code.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftify/logistics-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	URI      string
	Database string
	// Timeout bounds the initial connect and ping; zero uses defaultTimeout.
	Timeout time.Duration
}

// Store is the MongoDB durable tier.
type Store struct {
	client   *mongo.Client
	parcels  *ParcelRepository
	contacts *ContactRepository
}

// Open connects, pings and prepares the indexes of both collections.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Route elements are free-form; decode nested documents as maps so they
	// serialize back to JSON objects.
	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName("swiftify-api").
		SetServerSelectionTimeout(timeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:   client,
		parcels:  NewParcelRepository(db),
		contacts: NewContactRepository(db),
	}
	if err := s.parcels.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo parcel indexes: %w", err)
	}
	if err := s.contacts.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo contact indexes: %w", err)
	}
	return s, nil
}

func (s *Store) Parcels() ports.ParcelRepository   { return s.parcels }
func (s *Store) Contacts() ports.ContactRepository { return s.contacts }
func (s *Store) Name() string                      { return "mongo" }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
