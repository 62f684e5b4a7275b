package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/argon2"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

// AuthService implements the shared-key admin login.
type AuthService struct {
	keyHash   []byte
	salt      []byte
	jwtSecret []byte
	tokenTTL  time.Duration
	revoked   ports.RevocationStore
	logger    zerolog.Logger
	now       func() time.Time
}

type adminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func NewAuthService(adminKey, jwtSecret string, tokenTTL time.Duration, revoked ports.RevocationStore, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	salt := []byte(jwtSecret)
	return &AuthService{
		keyHash:   hashKey(adminKey, salt),
		salt:      salt,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		revoked:   revoked,
		logger:    logger,
		now:       time.Now,
	}
}

// hashKey is deterministic for a given salt so the configured key is hashed once at startup.
func hashKey(key string, salt []byte) []byte {
	return argon2.IDKey([]byte(key), salt, 1, 19*1024, 1, 32)
}

func (s *AuthService) Login(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", domain.ErrInvalidAdminKey
	}
	if subtle.ConstantTimeCompare(hashKey(key, s.salt), s.keyHash) != 1 {
		s.logger.Warn().Msg("admin login rejected")
		return "", domain.ErrInvalidAdminKey
	}
	return s.generateToken()
}

func (s *AuthService) Verify(ctx context.Context, tokenString string) (*ports.AdminClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	out := &ports.AdminClaims{Admin: claims.Admin, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	if out.TokenID != "" && s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, out.TokenID)
		if err != nil {
			// The revocation list is advisory; an unreachable list does not lock admins out.
			s.logger.Warn().Err(err).Str("jti", out.TokenID).Msg("revocation check failed")
		} else if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}
	return out, nil
}

func (s *AuthService) Revoke(ctx context.Context, claims *ports.AdminClaims) error {
	if claims == nil || claims.TokenID == "" {
		return domain.ErrUnauthenticated
	}
	if s.revoked == nil {
		return errors.New("revocation store not configured")
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("jti", claims.TokenID).Msg("admin token revoked")
	return nil
}

func (s *AuthService) generateToken() (string, error) {
	now := s.now()
	claims := adminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
