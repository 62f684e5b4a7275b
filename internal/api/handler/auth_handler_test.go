package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/swiftify/logistics-api/internal/api/middleware"
	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, key string) (string, error)
	revokeFn func(ctx context.Context, claims *ports.AdminClaims) error
}

func (s *stubAuthService) Login(ctx context.Context, key string) (string, error) {
	return s.loginFn(ctx, key)
}

func (s *stubAuthService) Verify(context.Context, string) (*ports.AdminClaims, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) Revoke(ctx context.Context, claims *ports.AdminClaims) error {
	return s.revokeFn(ctx, claims)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, key string) (string, error) {
			if key != "admin-key" {
				t.Fatalf("unexpected key %q", key)
			}
			return "signed.jwt.token", nil
		},
	})

	c, rec := newJSONContext(http.MethodPost, "/api/admin/login", `{"key":"admin-key"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed.jwt.token" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestAuthHandler_Login_InvalidKey(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string) (string, error) { return "", domain.ErrInvalidAdminKey },
	})

	c, _ := newJSONContext(http.MethodPost, "/api/admin/login", `{"key":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidAdminKey) {
		t.Fatalf("expected ErrInvalidAdminKey, got %v", err)
	}
}

func TestAuthHandler_Login_EmptyKeyIsMismatch(t *testing.T) {
	var called bool
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, key string) (string, error) {
			called = true
			if key != "" {
				t.Fatalf("unexpected key %q", key)
			}
			return "", domain.ErrInvalidAdminKey
		},
	})

	c, _ := newJSONContext(http.MethodPost, "/api/admin/login", `{"key":""}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidAdminKey) || !called {
		t.Fatalf("expected ErrInvalidAdminKey from the service, got %v (called=%v)", err, called)
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/api/admin/login", `{"key":`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked *ports.AdminClaims
	h := NewAuthHandler(&stubAuthService{
		revokeFn: func(_ context.Context, claims *ports.AdminClaims) error {
			revoked = claims
			return nil
		},
	})

	c, rec := newJSONContext(http.MethodPost, "/api/admin/logout", "")
	c.Set(middleware.ClaimsKey, &ports.AdminClaims{Admin: true, TokenID: "jti-1"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || revoked == nil || revoked.TokenID != "jti-1" {
		t.Fatalf("token not revoked: code=%d claims=%+v", rec.Code, revoked)
	}
}
