package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/remitlite/remitlite/internal/config"
	"github.com/remitlite/remitlite/internal/logging"
	"github.com/remitlite/remitlite/internal/rates"
	"github.com/remitlite/remitlite/internal/routes"
)

type unavailableSource struct{}

func (unavailableSource) Latest(context.Context, string) (rates.RateSet, error) {
	return nil, rates.ErrUpstream
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	srv, err := New(routes.Deps{
		Cfg: config.Config{
			AppName:          "RemitLite",
			AppEnv:           "test",
			JWTSecret:        "test-secret",
			JWTIssuer:        "remitlite",
			AccessTokenTTL:   time.Hour,
			RatesCache:       "memory",
			RatesCacheTTL:    5 * time.Minute,
			CORSAllowOrigins: "*",
			LoginAttempts:    5,
		},
		Logger:     logging.Discard(),
		Registry:   prometheus.NewRegistry(),
		RateSource: unavailableSource{},
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv.App()
}

func do(t *testing.T, app *fiber.App, method, path string, body any, header map[string]string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func transferBody() map[string]any {
	return map[string]any{
		"sender":       map[string]string{"name": "John Smith", "country": "US", "email": "john@example.com"},
		"recipient":    map[string]string{"name": "Emma Wilson", "country": "GB", "email": "emma@example.com"},
		"amount":       100.0,
		"fromCurrency": "USD",
		"toCurrency":   "EUR",
	}
}

func TestHealthWithoutBackends(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/api/health", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "healthy" || got["database"] != "not configured" {
		t.Fatalf("unexpected health %v", got)
	}
}

func TestConvertFallsBackWhenUpstreamDown(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodPost, "/api/convert",
		map[string]any{"amount": 100, "fromCurrency": "usd", "toCurrency": "eur"}, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var got struct {
		ConvertedAmount float64 `json:"convertedAmount"`
		ExchangeRate    float64 `json:"exchangeRate"`
		Source          string  `json:"source"`
		FromCurrency    string  `json:"fromCurrency"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ConvertedAmount != 85 || got.ExchangeRate != 0.85 || got.Source != "fallback" || got.FromCurrency != "USD" {
		t.Fatalf("unexpected conversion %+v", got)
	}
}

func TestTransferLifecycle(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/transfer", transferBody(), nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var created struct {
		ID             string  `json:"id"`
		TrackingNumber string  `json:"tracking_number"`
		TotalAmount    float64 `json:"total_amount"`
		Status         string  `json:"status"`
		DeliveryTime   string  `json:"delivery_time"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != "completed" || created.DeliveryTime != "1-2 hours" || !strings.HasPrefix(created.TrackingNumber, "RM") {
		t.Fatalf("unexpected transfer %+v", created)
	}

	status, body = do(t, app, http.MethodGet, "/api/transfers", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	var list []map[string]any
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0]["id"] != created.ID {
		t.Fatalf("unexpected list %v", list)
	}

	status, _ = do(t, app, http.MethodGet, "/api/transfers/"+created.TrackingNumber, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("get by tracking: expected 200, got %d", status)
	}

	status, body = do(t, app, http.MethodGet, "/api/transfers/does-not-exist", nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if !strings.Contains(string(body), `"error":"Transfer not found"`) {
		t.Fatalf("expected error body, got %s", body)
	}

	_, metricsBody := do(t, app, http.MethodGet, "/metrics", nil, nil)
	if !strings.Contains(string(metricsBody), `remitlite_transfers_created_total{from_currency="USD",to_currency="EUR"} 1`) {
		t.Fatalf("expected transfer counter in metrics output")
	}
}

func TestTransferValidationHasNoSideEffects(t *testing.T) {
	app := newTestApp(t)
	bad := transferBody()
	bad["amount"] = 0
	delete(bad, "recipient")

	status, body := do(t, app, http.MethodPost, "/api/transfer", bad, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if !strings.Contains(string(body), "amount must be greater than 0") {
		t.Fatalf("expected amount error, got %s", body)
	}

	_, body = do(t, app, http.MethodGet, "/api/transfers", nil, nil)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected no stored transfers, got %s", body)
	}
}

func TestAuthenticatedUserSeesOwnTransfers(t *testing.T) {
	app := newTestApp(t)

	if status, body := do(t, app, http.MethodPost, "/api/transfer", transferBody(), nil); status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}

	status, body := do(t, app, http.MethodPost, "/api/auth/register",
		map[string]string{"name": "Emma Wilson", "email": "emma@example.com", "password": "password1", "country_code": "GB"}, nil)
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", status, body)
	}
	var reg struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &reg); err != nil {
		t.Fatalf("decode: %v", err)
	}

	authz := map[string]string{fiber.HeaderAuthorization: "Bearer " + reg.Token}
	status, body = do(t, app, http.MethodGet, "/api/me/transfers", nil, authz)
	if status != http.StatusOK {
		t.Fatalf("me/transfers: expected 200, got %d", status)
	}
	var mine []map[string]any
	if err := json.Unmarshal(body, &mine); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected the claimed party's transfer, got %d", len(mine))
	}

	status, _ = do(t, app, http.MethodGet, "/api/auth/profile", nil, authz)
	if status != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/me/transfers", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestExchangeRatesReportsFallback(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/api/exchange-rates", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var got struct {
		Rates  map[string]map[string]float64 `json:"rates"`
		Source string                        `json:"source"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Source != "fallback" || got.Rates["USD"]["EUR"] != 0.85 {
		t.Fatalf("unexpected payload %+v", got)
	}
}
