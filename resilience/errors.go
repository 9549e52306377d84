package resilience

import "errors"

var (
	// ErrRateLimitExceeded is returned when no token is available in time.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when no slot frees up in time.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
)
