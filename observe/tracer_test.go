package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracer() (Tracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return NewTracer(tp.Tracer("test")), rec
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestLookupMeta_SpanName(t *testing.T) {
	tests := []struct {
		alg  string
		want string
	}{
		{"Default", "prime.lookup.Default"},
		{"Miller-Rabin", "prime.lookup.Miller-Rabin"},
	}
	for _, tt := range tests {
		if got := (LookupMeta{Algorithm: tt.alg}).SpanName(); got != tt.want {
			t.Errorf("SpanName(%q) = %q, want %q", tt.alg, got, tt.want)
		}
	}
}

func TestTracer_SuccessSpan(t *testing.T) {
	tracer, rec := newTestTracer()
	meta := LookupMeta{Algorithm: "Sieve", Bound: 10, ReadFromCache: true}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, Outcome{Primes: []int{2, 3, 5, 7}, CacheHit: true}, nil)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "prime.lookup.Sieve" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}

	attrs := attrMap(s.Attributes())
	if attrs[AttrBound].AsInt64() != 10 {
		t.Errorf("%s = %v", AttrBound, attrs[AttrBound])
	}
	if attrs[AttrAlgorithm].AsString() != "Sieve" {
		t.Errorf("%s = %v", AttrAlgorithm, attrs[AttrAlgorithm])
	}
	if !attrs[AttrCacheHit].AsBool() {
		t.Errorf("%s = false, want true", AttrCacheHit)
	}
	if attrs[AttrCount].AsInt64() != 4 {
		t.Errorf("%s = %v, want 4", AttrCount, attrs[AttrCount])
	}
	if attrs[AttrError].AsBool() {
		t.Errorf("%s = true, want false", AttrError)
	}
}

func TestTracer_ErrorSpan(t *testing.T) {
	tracer, rec := newTestTracer()

	_, span := tracer.StartSpan(context.Background(), LookupMeta{Algorithm: "Naive", Bound: 5})
	tracer.EndSpan(span, Outcome{}, errors.New("boom"))

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if !attrMap(s.Attributes())[AttrError].AsBool() {
		t.Errorf("%s = false, want true", AttrError)
	}
	if len(s.Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestNewTracer_NilUsesNoop(t *testing.T) {
	tracer := NewTracer(nil)
	ctx, span := tracer.StartSpan(context.Background(), LookupMeta{Algorithm: "Default"})
	if ctx == nil || span == nil {
		t.Fatal("expected usable context and span")
	}
	tracer.EndSpan(span, Outcome{}, nil)
}
