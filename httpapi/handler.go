package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jonwraymond/primeops/lookup"
	"github.com/jonwraymond/primeops/observe"
	"github.com/jonwraymond/primeops/resilience"
)

// Query parameter names and defaults.
const (
	ParamAlgorithm     = "algorithmName"
	ParamReadFromCache = "readFromCache"

	DefaultAlgorithm = "Default"
)

// Lookuper answers prime lookups. *lookup.Service satisfies it.
type Lookuper interface {
	Lookup(ctx context.Context, bound int, algorithmName string, readFromCache bool) (lookup.Response, error)
}

// Handler serves GET /primes/{bound}.
type Handler struct {
	svc    Lookuper
	guard  *resilience.Guard
	logger observe.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithGuard runs lookups under g.
func WithGuard(g *resilience.Guard) HandlerOption {
	return func(h *Handler) {
		h.guard = g
	}
}

// WithLogger sets the logger for failed requests.
func WithLogger(l observe.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a Handler over svc.
func NewHandler(svc Lookuper, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:    svc,
		guard:  resilience.NewGuard(),
		logger: observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.PathValue("bound")
	bound, err := strconv.Atoi(raw)
	if err != nil {
		writeText(w, http.StatusBadRequest, raw+" is not a valid number")
		return
	}

	q := r.URL.Query()
	algorithm := q.Get(ParamAlgorithm)
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	readFromCache := true
	if v := q.Get(ParamReadFromCache); v != "" {
		readFromCache, err = strconv.ParseBool(v)
		if err != nil {
			writeText(w, http.StatusBadRequest, v+" is not a valid boolean for "+ParamReadFromCache)
			return
		}
	}

	var resp lookup.Response
	err = h.guard.Execute(ctx, func(ctx context.Context) error {
		var lerr error
		resp, lerr = h.svc.Lookup(ctx, bound, algorithm, readFromCache)
		return lerr
	})
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lookup.ErrInvalidInput):
		writeText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, resilience.ErrRateLimitExceeded):
		h.logger.Warn(ctx, "prime lookup rejected", observe.Field{Key: "reason", Value: "rate_limit"})
		w.Header().Set("Retry-After", "1")
		writeText(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, resilience.ErrBulkheadFull):
		h.logger.Warn(ctx, "prime lookup rejected", observe.Field{Key: "reason", Value: "bulkhead_full"})
		writeText(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeText(w, http.StatusServiceUnavailable, err.Error())
	default:
		// Failed lookups are logged by the lookup middleware.
		writeText(w, http.StatusInternalServerError, err.Error())
	}
}

func writeText(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}

var _ Lookuper = (*lookup.Service)(nil)
