// Package cache memoizes prime lists per bound for the lifetime of a process.
//
// It provides a Cache interface keyed by the inclusive bound, an in-memory
// implementation with hit/miss counters, and a Memoizer that sits in front of
// a compute function. The key deliberately ignores which algorithm produced a
// list: once any algorithm has computed a bound, later reads for that bound
// are served from the cache.
//
// Entries are never evicted.
package cache
