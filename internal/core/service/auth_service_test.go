package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (s *stubRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.revoked[id] = ttl
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[id]
	return ok, nil
}

func newTestAuthService(revocations *stubRevocations) *AuthService {
	return NewAuthService("admin-key", "secret", time.Hour, revocations, zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubRevocations())

	token, err := svc.Login(context.Background(), "admin-key")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["admin"] != true {
		t.Fatalf("expected admin claim, got %v", claims["admin"])
	}
	if claims["jti"] == "" || claims["jti"] == nil {
		t.Fatalf("expected a token id")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("expected exp claim: %v", err)
	}
	if d := time.Until(exp.Time); d < 59*time.Minute || d > time.Hour+time.Second {
		t.Fatalf("unexpected token lifetime: %v", d)
	}
}

func TestAuthService_Login_InvalidKey(t *testing.T) {
	svc := newTestAuthService(newStubRevocations())

	for _, key := range []string{"", "wrong", "admin-key "} {
		if _, err := svc.Login(context.Background(), key); !errors.Is(err, domain.ErrInvalidAdminKey) {
			t.Fatalf("Login(%q): expected ErrInvalidAdminKey, got %v", key, err)
		}
	}
}

func TestAuthService_Verify(t *testing.T) {
	svc := newTestAuthService(newStubRevocations())
	token, _ := svc.Login(context.Background(), "admin-key")

	claims, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !claims.Admin || claims.TokenID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Verify_Rejects(t *testing.T) {
	svc := newTestAuthService(newStubRevocations())

	expired := NewAuthService("admin-key", "secret", time.Hour, nil, zerolog.Nop())
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.Login(context.Background(), "admin-key")

	other := NewAuthService("admin-key", "other-secret", time.Hour, nil, zerolog.Nop())
	foreignToken, _ := other.Login(context.Background(), "admin-key")

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"admin": true})
	noExpToken, _ := noExp.SignedString([]byte("secret"))

	tests := map[string]string{
		"empty":         "",
		"garbage":       "not-a-token",
		"expired":       expiredToken,
		"wrong secret":  foreignToken,
		"no expiration": noExpToken,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthService_Verify_NonAdminClaim(t *testing.T) {
	svc := newTestAuthService(newStubRevocations())
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin": false,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := tok.SignedString([]byte("secret"))

	claims, err := svc.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Admin {
		t.Fatalf("expected admin=false")
	}
}

func TestAuthService_Revoke(t *testing.T) {
	revocations := newStubRevocations()
	svc := newTestAuthService(revocations)
	token, _ := svc.Login(context.Background(), "admin-key")
	claims, _ := svc.Verify(context.Background(), token)

	if err := svc.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if ttl := revocations.revoked[claims.TokenID]; ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected revocation ttl: %v", ttl)
	}
	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthService_Verify_RevocationStoreDown(t *testing.T) {
	revocations := newStubRevocations()
	svc := newTestAuthService(revocations)
	token, _ := svc.Login(context.Background(), "admin-key")

	revocations.err = errors.New("connection refused")
	if _, err := svc.Verify(context.Background(), token); err != nil {
		t.Fatalf("expected verification to pass when the revocation list is unreachable, got %v", err)
	}
}
