package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Span attribute keys.
const (
	AttrBound         = attribute.Key("prime.bound")
	AttrAlgorithm     = attribute.Key("prime.algorithm")
	AttrReadFromCache = attribute.Key("prime.read_from_cache")
	AttrCacheHit      = attribute.Key("prime.cache_hit")
	AttrCount         = attribute.Key("prime.count")
	AttrError         = attribute.Key("prime.error")
)

// LookupMeta describes one prime lookup for telemetry purposes.
type LookupMeta struct {
	Algorithm     string // canonical algorithm name, e.g. "Sieve"
	Bound         int
	ReadFromCache bool
}

// SpanName returns the span name for this lookup: prime.lookup.<algorithm>.
func (m LookupMeta) SpanName() string {
	return "prime.lookup." + m.Algorithm
}

func (m LookupMeta) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrAlgorithm.String(m.Algorithm),
		AttrBound.Int(m.Bound),
	}
}

// Tracer wraps OpenTelemetry tracing with lookup-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for a lookup.
	StartSpan(ctx context.Context, meta LookupMeta) (context.Context, trace.Span)

	// EndSpan records the outcome and ends the span.
	EndSpan(span trace.Span, out Outcome, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta LookupMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(),
		AttrReadFromCache.Bool(meta.ReadFromCache),
		AttrError.Bool(false),
	)
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, out Outcome, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(AttrError.Bool(true))
		span.RecordError(err)
	} else {
		span.SetAttributes(
			AttrCacheHit.Bool(out.CacheHit),
			AttrCount.Int(len(out.Primes)),
		)
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
