package lookup

import (
	"context"

	"github.com/jonwraymond/primeops/cache"
	"github.com/jonwraymond/primeops/observe"
	"github.com/jonwraymond/primeops/prime"
)

// Response is the result of a lookup. Field names are part of the JSON wire
// format.
type Response struct {
	Initial int   `json:"Initial"`
	Primes  []int `json:"Primes"`
}

// Computer enumerates primes up to a bound. *prime.Engine satisfies it.
type Computer interface {
	Compute(bound int, alg prime.Algorithm) ([]int, error)
}

// Option configures a Service.
type Option func(*Service)

// WithMiddleware wraps every lookup with tracing, metrics and logging.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(s *Service) {
		s.mw = mw
	}
}

// WithLogger sets the logger used for rejected requests.
func WithLogger(l observe.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service orchestrates validation, caching and computation.
//
// Contract:
//   - Concurrency: safe for concurrent use; concurrent misses for the same
//     bound may each compute, and the last write wins.
//   - Context: passed to the cache and middleware; computation itself is not
//     interrupted by cancellation.
type Service struct {
	computer Computer
	memo     *cache.Memoizer
	mw       *observe.Middleware
	logger   observe.Logger
}

// NewService creates a Service over computer and c.
func NewService(computer Computer, c cache.Cache, opts ...Option) (*Service, error) {
	if computer == nil {
		return nil, ErrNilComputer
	}
	memo, err := cache.NewMemoizer(c)
	if err != nil {
		return nil, err
	}
	s := &Service{
		computer: computer,
		memo:     memo,
		logger:   observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Lookup returns the primes <= bound.
//
// bound must be non-negative and algorithmName must be a known algorithm
// name ("Default", "Naive", "Sieve", "Miller-Rabin"); otherwise an
// *InputError is returned. With readFromCache set, a non-empty cached list
// for bound is returned regardless of which algorithm produced it. The
// returned Primes slice is owned by the caller.
func (s *Service) Lookup(ctx context.Context, bound int, algorithmName string, readFromCache bool) (Response, error) {
	if err := cache.ValidateKey(bound); err != nil {
		s.logger.Debug(ctx, "rejected bound", observe.Field{Key: "bound", Value: bound})
		return Response{}, negativeBoundError(bound, err)
	}
	alg, err := prime.ParseAlgorithm(algorithmName)
	if err != nil {
		s.logger.Debug(ctx, "rejected algorithm", observe.Field{Key: "algorithm", Value: algorithmName})
		return Response{}, unknownAlgorithmError(algorithmName, err)
	}

	exec := s.execute(alg)
	if s.mw != nil {
		exec = s.mw.Wrap(exec)
	}

	out, err := exec(ctx, observe.LookupMeta{
		Algorithm:     alg.String(),
		Bound:         bound,
		ReadFromCache: readFromCache,
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Initial: bound, Primes: out.Primes}, nil
}

func (s *Service) execute(alg prime.Algorithm) observe.ExecuteFunc {
	return func(ctx context.Context, meta observe.LookupMeta) (observe.Outcome, error) {
		primes, hit, err := s.memo.Execute(ctx, meta.Bound, meta.ReadFromCache,
			func(_ context.Context, bound int) ([]int, error) {
				return s.computer.Compute(bound, alg)
			})
		if err != nil {
			return observe.Outcome{}, err
		}
		return observe.Outcome{Primes: primes, CacheHit: hit}, nil
	}
}

var _ Computer = (*prime.Engine)(nil)
