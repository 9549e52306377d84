package httpapi

import (
	"net/http"

	"github.com/jonwraymond/primeops/observe"
)

// RouterConfig assembles the service's HTTP surface.
type RouterConfig struct {
	// Primes serves /primes/{bound}. Required.
	Primes http.Handler

	// Auth, if set, wraps the primes route only.
	Auth func(http.Handler) http.Handler

	// Health mounts additional routes (health probes) on the mux.
	Health func(*http.ServeMux)

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler

	Logger observe.Logger
}

// NewRouter builds the root handler. Every route gets request ids and access
// logs.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = observe.NopLogger()
	}

	mux := http.NewServeMux()

	primes := cfg.Primes
	if cfg.Auth != nil {
		primes = cfg.Auth(primes)
	}
	mux.Handle("GET /primes/{bound}", primes)

	if cfg.Health != nil {
		cfg.Health(mux)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return Chain(mux, RequestID, AccessLog(logger))
}
