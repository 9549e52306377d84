// Package health reports whether the prime service can take traffic.
//
// A Checker reports a Result with one of three statuses: Healthy, Degraded or
// Unhealthy. The Aggregator runs registered checkers concurrently under a
// shared timeout and folds their results into one overall status. Degraded
// still counts as ready; only Unhealthy fails readiness.
//
// Two checkers ship with the package:
//
//	agg := health.NewAggregator(health.AggregatorConfig{Timeout: 2 * time.Second})
//	agg.Register(health.NewMemoryChecker(health.MemoryCheckerConfig{MaxHeapBytes: 512 << 20}))
//	agg.Register(health.NewCacheChecker(memCache, 100_000))
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
//
// CacheChecker exists because the result cache never evicts: it turns
// Degraded once the number of cached bounds crosses the warning threshold.
package health
