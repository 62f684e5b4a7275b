package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/swiftify/logistics-api/internal/api/handler"
	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
	"github.com/swiftify/logistics-api/internal/core/service"
	"github.com/swiftify/logistics-api/internal/infrastructure/db/memory"
	"github.com/swiftify/logistics-api/internal/infrastructure/store"
)

const (
	testAdminKey = "admin-key"
	testSecret   = "test-secret"
)

type discardEvents struct{}

func (discardEvents) Emit(ports.Event) {}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()
	parcels := store.NewTieredParcels(nil, memory.NewParcelStore(), log)
	contacts := store.NewTieredContacts(nil, memory.NewContactStore(), log)

	return NewRouter(Services{
		Parcels: service.NewParcelService(parcels, service.StaticRouteProvider{}, service.WeightCostEstimator{},
			service.NewTrackingIDGenerator(), discardEvents{}, log),
		Contacts:      service.NewContactService(contacts, discardEvents{}, log),
		Settings:      service.NewSettingsService(memory.NewSettingsStore(), log),
		Auth:          service.NewAuthService(testAdminKey, testSecret, time.Hour, memory.NewRevocationList(), log),
		Notifications: service.NewNotificationService(nil, nil, log),
		Health:        handler.NewHealthHandler(parcels, contacts, handler.ServiceFlags{}, nil),
	}, Options{Logger: log})
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

func login(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/api/admin/login", "", `{"key":"`+testAdminKey+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.Token
}

// nonAdminToken is correctly signed but does not assert the admin claim.
func nonAdminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"admin": false,
		"jti":   "non-admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

const scheduleBody = `{
	"sender":   {"name":"Ann","email":"ann@example.com","phone":"555-0100","address":"San Francisco, CA"},
	"receiver": {"name":"Bob","email":"bob@example.com","phone":"555-0199","address":"Los Angeles, CA"},
	"parcelDetails": {"description":"Books","weight":"5-10kg","dimensions":{"length":30,"width":20,"height":10},"value":120}
}`

func schedule(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/api/schedule", "", scheduleBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		TrackingID string `json:"trackingId"`
	}
	decode(t, rec, &resp)
	return resp.TrackingID
}

func TestRouter_ScheduleThenTrack(t *testing.T) {
	e := newTestRouter(t)
	id := schedule(t, e)

	rec := do(t, e, http.MethodGet, "/api/track/"+id, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("track: expected 200, got %d", rec.Code)
	}
	var p domain.Parcel
	decode(t, rec, &p)

	if p.ID != id || p.Status != domain.StatusPending || p.Progress != 0 || p.Mode != domain.ModeAuto {
		t.Fatalf("unexpected parcel: %+v", p)
	}
	if len(p.Route) != 5 || p.Route[0].(map[string]any)["label"] != "San Francisco, CA" {
		t.Fatalf("expected the named 5-point route, got %+v", p.Route)
	}
	if p.EstimatedCost == nil || *p.EstimatedCost != 22.5 {
		t.Fatalf("expected estimated cost 22.5, got %v", p.EstimatedCost)
	}
	if p.Sender.Address != "San Francisco, CA" || p.Receiver.Name != "Bob" || p.ParcelDetails.Weight != "5-10kg" {
		t.Fatalf("input not round-tripped: %+v", p)
	}
	if len(p.History) != 1 || p.History[0].Location != "San Francisco" {
		t.Fatalf("unexpected history: %+v", p.History)
	}
}

func TestRouter_TrackUnknown(t *testing.T) {
	e := newTestRouter(t)
	rec := do(t, e, http.MethodGet, "/api/track/SWIFT-000000AAAAAA", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp map[string]string
	decode(t, rec, &resp)
	if resp["detail"] != "Tracking ID not found" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestRouter_ScheduleValidation(t *testing.T) {
	e := newTestRouter(t)
	body := strings.Replace(scheduleBody, `"ann@example.com"`, `"not-an-email"`, 1)

	rec := do(t, e, http.MethodPost, "/api/schedule", "", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sender.email") {
		t.Fatalf("expected the failing field in the message, got %s", rec.Body.String())
	}
}

func TestRouter_AdminAccess(t *testing.T) {
	e := newTestRouter(t)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "garbage", http.StatusUnauthorized},
		{"token without admin claim", nonAdminToken(t), http.StatusForbidden},
		{"admin token", login(t, e), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, e, http.MethodGet, "/api/admin/parcels", tc.token, "")
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_LoginRejectsWrongKey(t *testing.T) {
	e := newTestRouter(t)
	for _, body := range []string{`{"key":"nope"}`, `{"key":""}`, `{}`} {
		rec := do(t, e, http.MethodPost, "/api/admin/login", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", body, rec.Code)
		}
	}
}

func TestRouter_UpdateAppendsHistory(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e)
	id := schedule(t, e)

	rec := do(t, e, http.MethodPatch, "/api/admin/parcel/"+id, token,
		`{"status":"in-transit","currentPosition":{"lat":36.77,"lng":-119.41,"label":"Fresno, CA"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var p domain.Parcel
	decode(t, rec, &p)
	if p.Progress != 60 || len(p.History) != 2 || p.CurrentPosition.Label != "Fresno, CA" {
		t.Fatalf("unexpected parcel after update: %+v", p)
	}

	rec = do(t, e, http.MethodPatch, "/api/admin/parcel/"+id, token, `{"status":"held-at-customs","mode":"manual"}`)
	decode(t, rec, &p)
	if p.Progress != 60 || p.Status != "held-at-customs" || p.Mode != "manual" || len(p.History) != 3 {
		t.Fatalf("unexpected parcel after custom status: %+v", p)
	}
	if p.History[2].Notes != "Status updated to held-at-customs" {
		t.Fatalf("unexpected default note: %q", p.History[2].Notes)
	}
}

func TestRouter_ReplaceRoute(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e)
	id := schedule(t, e)

	rec := do(t, e, http.MethodPatch, "/api/admin/parcel/"+id+"/route", token, `{"route":"nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-list route: expected 400, got %d", rec.Code)
	}
	rec = do(t, e, http.MethodPatch, "/api/admin/parcel/"+id+"/route", token, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing route: expected 400, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodPatch, "/api/admin/parcel/"+id+"/route", token, `{"route":[{"lat":1,"lng":2},{"lat":3,"lng":4,"label":"Hub"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var p domain.Parcel
	decode(t, rec, &p)
	if len(p.Route) != 2 || p.Route[1].(map[string]any)["label"] != "Hub" {
		t.Fatalf("route not replaced: %+v", p.Route)
	}

	rec = do(t, e, http.MethodPatch, "/api/admin/parcel/"+id+"/route", token, `{"route":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty route: expected 400, got %d", rec.Code)
	}
}

func TestRouter_ReplaceRoute_StoresElementsVerbatim(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e)
	id := schedule(t, e)

	rec := do(t, e, http.MethodPatch, "/api/admin/parcel/"+id+"/route", token,
		`{"route":[{"lat":"37.77","lng":"-122.41","label":"SF","eta":"x"},"Los Angeles"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, http.MethodGet, "/api/track/"+id, "", "")
	var p domain.Parcel
	decode(t, rec, &p)
	if len(p.Route) != 2 || p.Route[1] != "Los Angeles" {
		t.Fatalf("route not stored as sent: %+v", p.Route)
	}
	first := p.Route[0].(map[string]any)
	if first["lat"] != "37.77" || first["eta"] != "x" {
		t.Fatalf("route element altered: %+v", first)
	}
}

func TestRouter_Delete(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e)

	rec := do(t, e, http.MethodDelete, "/api/admin/parcel/SWIFT-000000AAAAAA", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rec.Code)
	}

	id := schedule(t, e)
	rec = do(t, e, http.MethodDelete, "/api/admin/parcel/"+id, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = do(t, e, http.MethodGet, "/api/track/"+id, "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted parcel still trackable: %d", rec.Code)
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e)

	if rec := do(t, e, http.MethodPost, "/api/admin/logout", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	rec := do(t, e, http.MethodGet, "/api/admin/contacts", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_ContactAndSettings(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e)

	rec := do(t, e, http.MethodPost, "/api/contact", "", `{"name":"Ann","email":"ann@example.com","message":"Hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("contact: expected 200, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodGet, "/api/admin/contacts", token, "")
	var messages []domain.ContactMessage
	decode(t, rec, &messages)
	if len(messages) != 1 || messages[0].Status != domain.ContactStatusNew {
		t.Fatalf("unexpected contacts: %+v", messages)
	}

	rec = do(t, e, http.MethodPut, "/api/admin/settings", token, `{"phone_number":"+1 555 0100","unknown":"x"}`)
	var settings map[string]string
	decode(t, rec, &settings)
	if len(settings) != 3 || settings["phone_number"] != "+1 555 0100" {
		t.Fatalf("unexpected settings: %v", settings)
	}
}

func TestRouter_NotificationsReportFailure(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/notifications/sms", "", `{"phone":"+15550199","message":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]bool
	decode(t, rec, &resp)
	if resp["success"] {
		t.Fatalf("disabled sms must report success=false")
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t)
	schedule(t, e)

	rec := do(t, e, http.MethodGet, "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Status       string `json:"status"`
		ParcelsCount int    `json:"parcels_count"`
	}
	decode(t, rec, &resp)
	if resp.Status != "healthy" || resp.ParcelsCount != 1 {
		t.Fatalf("unexpected health: %+v", resp)
	}
}
