package cache

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Writes  uint64
	Entries int
}

// HitRatio returns Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// MemoryCache is an unbounded in-memory cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[int][]int

	hits   atomic.Uint64
	misses atomic.Uint64
	writes atomic.Uint64
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[int][]int),
	}
}

// Get retrieves a copy of the list for bound.
func (c *MemoryCache) Get(_ context.Context, bound int) ([]int, bool) {
	c.mu.RLock()
	primes, ok := c.entries[bound]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return slices.Clone(primes), true
}

// Set stores a private copy of primes for bound.
func (c *MemoryCache) Set(_ context.Context, bound int, primes []int) error {
	if err := ValidateKey(bound); err != nil {
		return err
	}

	stored := slices.Clone(primes)
	if stored == nil {
		stored = []int{}
	}

	c.mu.Lock()
	c.entries[bound] = stored
	c.mu.Unlock()

	c.writes.Add(1)
	return nil
}

// Delete removes the entry for bound. Idempotent - no error on miss.
func (c *MemoryCache) Delete(_ context.Context, bound int) error {
	c.mu.Lock()
	delete(c.entries, bound)
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached bounds.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *MemoryCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Writes:  c.writes.Load(),
		Entries: c.Len(),
	}
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
