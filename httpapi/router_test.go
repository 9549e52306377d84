package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jonwraymond/primeops/lookup"
	"github.com/jonwraymond/primeops/observe"
)

func okHandler() http.Handler {
	return NewHandler(stubLookuper{fn: func(_ context.Context) (lookup.Response, error) {
		return lookup.Response{Initial: 3, Primes: []int{2, 3}}, nil
	}})
}

func TestRequestID(t *testing.T) {
	h := NewRouter(RouterConfig{Primes: okHandler()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/primes/3", nil))
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("generated request id %q is not a UUID", rec.Header().Get(RequestIDHeader))
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/primes/3", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != incoming {
		t.Errorf("request id = %q, want %q", got, incoming)
	}

	req = httptest.NewRequest(http.MethodGet, "/primes/3", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\n")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid\n" {
		t.Error("invalid incoming request id was echoed")
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewRouter(RouterConfig{
		Primes: okHandler(),
		Logger: observe.NewLoggerWithWriter("info", &buf),
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/primes/3?algorithmName=Sieve", nil))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	if line["message"] != "http request" || line["status"] != float64(200) {
		t.Errorf("log line = %v", line)
	}
	if line["path"] != "/primes/3" || line["query"] != "algorithmName=Sieve" {
		t.Errorf("log line = %v", line)
	}
	if line["request_id"] != rec.Header().Get(RequestIDHeader) {
		t.Errorf("request_id = %v", line["request_id"])
	}
}

func TestRouter_AuthOnlyWrapsPrimes(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
	h := NewRouter(RouterConfig{
		Primes: okHandler(),
		Auth:   deny,
		Health: func(mux *http.ServeMux) {
			mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("OK"))
			})
		},
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	})

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/primes/3", http.StatusUnauthorized, "unauthorized"},
		{"/healthz", http.StatusOK, "OK"},
		{"/metrics", http.StatusOK, "# metrics"},
		{"/unknown", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.code)
		}
		if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
			t.Errorf("GET %s body = %q", tt.path, rec.Body.String())
		}
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := NewRouter(RouterConfig{Primes: okHandler()})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/primes/3", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /primes/3 = %d, want 405", rec.Code)
	}
}
