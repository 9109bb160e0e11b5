package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClientLatest(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"base":"USD","rates":{"EUR":0.91,"GBP":0.78}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL+"/", "k3y", time.Second)
	set, err := client.Latest(context.Background(), "USD")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if set["EUR"] != 0.91 || set["GBP"] != 0.78 {
		t.Fatalf("unexpected rates %v", set)
	}
	if gotQuery != "access_key=k3y&base=USD" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestHTTPClientFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "malformed", status: http.StatusOK, body: `{"rates":`},
		{name: "success false", status: http.StatusOK, body: `{"success":false,"error":{"code":101}}`},
		{name: "empty rates", status: http.StatusOK, body: `{"base":"USD","rates":{}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, "", time.Second).Latest(context.Background(), "USD")
			if !errors.Is(err, ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
		})
	}
}

func TestHTTPClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPClient(srv.URL, "", 50*time.Millisecond).Latest(context.Background(), "USD")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}
