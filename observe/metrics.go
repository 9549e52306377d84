package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names.
const (
	MetricLookupTotal    = "prime.lookup.total"
	MetricLookupErrors   = "prime.lookup.errors"
	MetricCacheHits      = "prime.cache.hits"
	MetricLookupDuration = "prime.lookup.duration_ms"
	MetricCacheEntries   = "prime.cache.entries"
)

// Metrics records lookup metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a completed lookup.
	RecordLookup(ctx context.Context, meta LookupMeta, duration time.Duration, cacheHit bool, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	cacheHits    metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the lookup instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		MetricLookupTotal,
		metric.WithDescription("Total number of prime lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		MetricLookupErrors,
		metric.WithDescription("Total number of failed prime lookups"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		MetricCacheHits,
		metric.WithDescription("Lookups answered from the result cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricLookupDuration,
		metric.WithDescription("Prime lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		cacheHits:    cacheHits,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta LookupMeta, duration time.Duration, cacheHit bool, err error) {
	opt := metric.WithAttributes(
		AttrAlgorithm.String(meta.Algorithm),
		AttrCacheHit.Bool(cacheHit),
	)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	if cacheHit {
		m.cacheHits.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// RegisterCacheGauge registers an observable gauge reporting the number of
// cached bounds.
func RegisterCacheGauge(meter metric.Meter, entries func() int) error {
	_, err := meter.Int64ObservableGauge(
		MetricCacheEntries,
		metric.WithDescription("Number of bounds held in the result cache"),
		metric.WithUnit("{entry}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(entries()))
			return nil
		}),
	)
	return err
}
