package cache

import (
	"context"
	"errors"
)

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
)

// Cache stores prime lists keyed by bound.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Ownership: Set must not retain the caller's slice and Get must return a
//     slice the caller owns.
//   - Errors: Get never errors; it returns (nil, false) on miss.
//   - Overwrite: Set replaces any existing entry for the bound (last writer wins).
type Cache interface {
	// Get retrieves the cached list for bound. Returns (nil, false) on miss.
	Get(ctx context.Context, bound int) ([]int, bool)

	// Set stores primes for bound, replacing any previous entry.
	Set(ctx context.Context, bound int, primes []int) error

	// Delete removes the entry for bound. Idempotent - no error on miss.
	Delete(ctx context.Context, bound int) error
}

// ValidateKey checks if a bound is usable as a cache key.
func ValidateKey(bound int) error {
	if bound < 0 {
		return ErrInvalidKey
	}
	return nil
}
