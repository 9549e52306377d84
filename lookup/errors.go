package lookup

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *InputError.
	ErrInvalidInput = errors.New("lookup: invalid input")

	// ErrNilComputer indicates NewService was given no engine.
	ErrNilComputer = errors.New("lookup: computer is nil")
)

// InputError describes a rejected request. Its message is caller-facing.
type InputError struct {
	Message string
	Err     error // underlying cause, may be nil
}

func (e *InputError) Error() string { return e.Message }

// Unwrap exposes ErrInvalidInput and the underlying cause.
func (e *InputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

func negativeBoundError(bound int, cause error) *InputError {
	return &InputError{
		Message: fmt.Sprintf("%d is not allowed; only non negative number is allowed", bound),
		Err:     cause,
	}
}

func unknownAlgorithmError(name string, cause error) *InputError {
	return &InputError{
		Message: fmt.Sprintf("%s is not accepted algorithm", name),
		Err:     cause,
	}
}
