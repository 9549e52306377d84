package cache

import "context"

// ComputeFunc produces the prime list for a bound on a cache miss.
type ComputeFunc func(ctx context.Context, bound int) ([]int, error)

// Memoizer wraps a compute function with read-through, write-always caching.
type Memoizer struct {
	cache Cache
}

// NewMemoizer creates a memoizer over c.
func NewMemoizer(c Cache) (*Memoizer, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	return &Memoizer{cache: c}, nil
}

// Execute returns the primes for bound.
//
// When readFromCache is true and the cache holds a non-empty list for bound,
// that list is returned with hit=true and compute is not called. Otherwise
// compute runs and its result is written to the cache, even when
// readFromCache is false, so later reads benefit. Errors are NOT cached.
func (m *Memoizer) Execute(
	ctx context.Context,
	bound int,
	readFromCache bool,
	compute ComputeFunc,
) (primes []int, hit bool, err error) {
	if readFromCache {
		if cached, ok := m.cache.Get(ctx, bound); ok && len(cached) > 0 {
			return cached, true, nil
		}
	}

	primes, err = compute(ctx, bound)
	if err != nil {
		return nil, false, err
	}

	if err := m.cache.Set(ctx, bound, primes); err != nil {
		return nil, false, err
	}
	return primes, false, nil
}

// Cache returns the underlying cache.
func (m *Memoizer) Cache() Cache {
	return m.cache
}
