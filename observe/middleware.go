package observe

import (
	"context"
	"time"
)

// Outcome is the result of a lookup as seen by the middleware.
type Outcome struct {
	Primes   []int
	CacheHit bool
}

// ExecuteFunc is the lookup signature that Middleware wraps.
type ExecuteFunc func(ctx context.Context, meta LookupMeta) (Outcome, error)

// Middleware wraps lookups with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns a function safe for concurrent use.
//   - Context: the span context is passed to the wrapped function.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
//   - Ownership: the Outcome is passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(nil)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps fn with a span, lookup metrics and one log line per call.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, meta LookupMeta) (Outcome, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		out, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, out, err)
		m.metrics.RecordLookup(ctx, meta, duration, out.CacheHit, err)

		fields := []Field{
			{Key: "algorithm", Value: meta.Algorithm},
			{Key: "bound", Value: meta.Bound},
			{Key: "read_from_cache", Value: meta.ReadFromCache},
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			m.logger.Error(ctx, "prime lookup failed", fields...)
		} else {
			fields = append(fields,
				Field{Key: "cache_hit", Value: out.CacheHit},
				Field{Key: "count", Value: len(out.Primes)},
			)
			m.logger.Info(ctx, "prime lookup completed", fields...)
		}

		return out, err
	}
}

// MiddlewareFromObserver builds a Middleware from an Observer's tracer,
// meter and logger.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

type noopMetrics struct{}

func (noopMetrics) RecordLookup(context.Context, LookupMeta, time.Duration, bool, error) {}
