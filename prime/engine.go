package prime

import "fmt"

// strategy enumerates the primes <= bound. Every strategy returns a non-nil
// slice and treats bound < 2 as empty.
type strategy func(bound int) []int

// Engine computes prime lists with a selectable Algorithm.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Determinism: output is identical across algorithms for the same bound,
//     except that MillerRabin may, with negligible probability, admit a composite.
//   - Ownership: the returned slice is owned by the caller.
type Engine struct {
	mr            millerRabin
	maxSieveBound int
	strategies    [numAlgorithms]strategy
}

// DefaultMaxSieveBound is the largest bound the sieve accepts unless
// WithMaxSieveBound says otherwise. The sieve needs one byte per candidate.
const DefaultMaxSieveBound = 1 << 30

// Option configures an Engine.
type Option func(*Engine)

// WithRandomSource sets the source of Miller-Rabin bases.
func WithRandomSource(src RandomSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.mr.source = src
		}
	}
}

// WithSeed seeds a private generator for Miller-Rabin bases, making its
// output reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.mr.source = newSeededSource(seed)
	}
}

// WithMaxSieveBound caps the bound Sieve will allocate for. Larger bounds
// fail with ErrComputation before any allocation. Values <= 0 keep
// DefaultMaxSieveBound.
func WithMaxSieveBound(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSieveBound = n
		}
	}
}

// NewEngine creates an engine. Without options Miller-Rabin uses the
// process-wide math/rand/v2 generator.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		mr:            millerRabin{source: globalSource{}},
		maxSieveBound: DefaultMaxSieveBound,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.strategies = [numAlgorithms]strategy{
		Default:     defaultPrimes,
		Naive:       naivePrimes,
		Sieve:       sievePrimes,
		MillerRabin: e.mr.primes,
	}
	return e
}

// Compute returns the primes <= bound using alg, in increasing order.
// Bounds below 2 yield an empty list. Sieve bounds above the engine's limit
// fail with ErrComputation.
func (e *Engine) Compute(bound int, alg Algorithm) (primes []int, err error) {
	if !alg.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	if alg == Sieve && bound > e.maxSieveBound {
		return nil, fmt.Errorf("%w: %s up to %d exceeds the sieve limit of %d",
			ErrComputation, alg, bound, e.maxSieveBound)
	}

	defer func() {
		if r := recover(); r != nil {
			primes = nil
			err = fmt.Errorf("%w: %s up to %d: %v", ErrComputation, alg, bound, r)
		}
	}()

	return e.strategies[alg](bound), nil
}

// IsProbablePrime runs the Miller-Rabin test on a single value.
func (e *Engine) IsProbablePrime(n int) bool {
	return e.mr.isPrime(n)
}
