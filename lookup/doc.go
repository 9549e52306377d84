// Package lookup answers prime listing requests.
//
// A Service validates the requested bound and algorithm name, consults the
// per-bound result cache and falls back to the prime engine on a miss. Every
// computed list is written back to the cache, including when the caller asked
// to bypass cache reads.
//
// Invalid input is reported as an *InputError wrapping ErrInvalidInput, whose
// message is meant to be shown to the caller verbatim. Engine failures pass
// through unchanged and match prime.ErrComputation.
package lookup
