// Package postgres is the relational durable tier. Records are stored as JSONB
// documents next to the columns used for ordering.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftify/logistics-api/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS parcels (
    id         TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL,
    data       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS parcels_created_at_idx ON parcels (created_at);

CREATE TABLE IF NOT EXISTS contact_messages (
    id         TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL,
    data       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_messages_created_at_idx ON contact_messages (created_at);
`

// Store is the Postgres durable tier.
type Store struct {
	pool     *pgxpool.Pool
	parcels  *ParcelRepository
	contacts *ContactRepository
}

// Open creates the pool, verifies connectivity and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 2*defaultTimeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := pool.Exec(connectCtx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	return &Store{
		pool:     pool,
		parcels:  NewParcelRepository(pool),
		contacts: NewContactRepository(pool),
	}, nil
}

func (s *Store) Parcels() ports.ParcelRepository   { return s.parcels }
func (s *Store) Contacts() ports.ContactRepository { return s.contacts }
func (s *Store) Name() string                      { return "postgres" }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
