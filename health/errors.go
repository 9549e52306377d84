package health

import "errors"

var (
	// ErrCheckFailed indicates a check crossed its critical threshold.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a check did not finish before the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckPanicked indicates a check panicked.
	ErrCheckPanicked = errors.New("health: check panicked")

	// ErrCheckerNotFound indicates no checker is registered under a name.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
