package ports

import (
	"context"
	"time"
)

// AdminClaims is the verified content of an admin capability token.
type AdminClaims struct {
	Admin     bool
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	// Login exchanges the shared admin key for a signed token.
	Login(ctx context.Context, key string) (string, error)
	// Verify parses and checks a token, including the revocation list.
	Verify(ctx context.Context, token string) (*AdminClaims, error)
	// Revoke invalidates a verified token before its expiry.
	Revoke(ctx context.Context, claims *AdminClaims) error
}

// RevocationStore remembers revoked token ids until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
