package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/config"
	"github.com/remitlite/remitlite/internal/identity"
	"github.com/remitlite/remitlite/internal/logging"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", JWTIssuer: "remitlite", AccessTokenTTL: 7 * 24 * time.Hour}
}

func TestIssueAndParse(t *testing.T) {
	svc := NewService(testConfig())

	tok, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if until := time.Until(tok.ExpiresAt); until < 6*24*time.Hour {
		t.Fatalf("expected ~7 day expiry, got %s", until)
	}

	uid, err := svc.Parse(tok.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("expected user-1, got %s", uid)
	}
}

func TestParseExpired(t *testing.T) {
	svc := NewService(testConfig())
	svc.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	tok, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Parse(tok.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	other := testConfig()
	other.JWTSecret = "someone-else"
	tok, err := NewService(other).Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewService(testConfig()).Parse(tok.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := NewService(testConfig()).Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc"); !ok || tok != "abc" {
		t.Fatalf("expected abc, got %q %v", tok, ok)
	}
	if _, ok := BearerToken("Basic abc"); ok {
		t.Fatalf("basic auth must be rejected")
	}
	if _, ok := BearerToken("bearer   "); ok {
		t.Fatalf("empty token must be rejected")
	}
}

func newAuthApp() *fiber.App {
	ids := identity.NewService(identity.NewMemoryRepository())
	h := NewHandler(ids, NewService(testConfig()), logging.Discard())
	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Get("/verify", h.Verify)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return resp
}

func TestRegisterLoginVerifyFlow(t *testing.T) {
	app := newAuthApp()

	resp := postJSON(t, app, "/register", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/register", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/login", map[string]string{"email": "ada@example.com", "password": "wrong-pass"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/login", map[string]string{"email": "ada@example.com", "password": "password1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var login authResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" || login.User.Email != "ada@example.com" {
		t.Fatalf("unexpected login response %+v", login)
	}

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+login.Token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", resp.StatusCode)
	}
}

func TestRegisterValidatesPayload(t *testing.T) {
	app := newAuthApp()
	resp := postJSON(t, app, "/register", map[string]string{"email": "not-an-email", "password": "short"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRegisterRejectsBlankName(t *testing.T) {
	app := newAuthApp()
	resp := postJSON(t, app, "/register", map[string]string{"name": "   ", "email": "blank@example.com", "password": "password1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "name must not be blank") {
		t.Fatalf("unexpected body %s", body)
	}
}
