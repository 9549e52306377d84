// Package resilience protects the prime endpoint from overload.
//
// Prime computation is CPU-bound and, for large bounds, memory-hungry, so
// the service bounds both how fast requests are admitted and how many run at
// once:
//
//   - RateLimiter is a token bucket over golang.org/x/time/rate.
//   - Bulkhead caps concurrent operations with a weighted semaphore from
//     golang.org/x/sync/semaphore.
//   - Guard applies the rate limiter first, then the bulkhead.
//
// Usage:
//
//	guard := resilience.NewGuard(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 50, Burst: 10})),
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 4})),
//	)
//	err := guard.Execute(ctx, func(ctx context.Context) error {
//	    resp, err = svc.Lookup(ctx, bound, name, true)
//	    return err
//	})
//
// Rejections are reported as ErrRateLimitExceeded or ErrBulkheadFull; the
// HTTP layer maps them to 429 and 503.
package resilience
