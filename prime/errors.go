package prime

import "errors"

// Sentinel errors for prime enumeration.
var (
	// ErrUnsupportedAlgorithm indicates an algorithm name or value outside the
	// closed set of strategies.
	ErrUnsupportedAlgorithm = errors.New("prime: unsupported algorithm")

	// ErrComputation indicates a strategy failed for a validated bound,
	// typically because the bound is too large to allocate for.
	ErrComputation = errors.New("prime: computation failed")
)
