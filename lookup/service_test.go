package lookup

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/jonwraymond/primeops/cache"
	"github.com/jonwraymond/primeops/observe"
	"github.com/jonwraymond/primeops/prime"
)

// countingComputer delegates to a real engine and records each call.
type countingComputer struct {
	mu     sync.Mutex
	engine *prime.Engine
	calls  []prime.Algorithm
	err    error
}

func newCountingComputer() *countingComputer {
	return &countingComputer{engine: prime.NewEngine(prime.WithSeed(1))}
}

func (c *countingComputer) Compute(bound int, alg prime.Algorithm) ([]int, error) {
	c.mu.Lock()
	c.calls = append(c.calls, alg)
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.engine.Compute(bound, alg)
}

func (c *countingComputer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *countingComputer, *cache.MemoryCache) {
	t.Helper()
	comp := newCountingComputer()
	mc := cache.NewMemoryCache()
	svc, err := NewService(comp, mc, opts...)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, comp, mc
}

func TestNewService_Validation(t *testing.T) {
	if _, err := NewService(nil, cache.NewMemoryCache()); !errors.Is(err, ErrNilComputer) {
		t.Errorf("expected ErrNilComputer, got %v", err)
	}
	if _, err := NewService(newCountingComputer(), nil); !errors.Is(err, cache.ErrNilCache) {
		t.Errorf("expected ErrNilCache, got %v", err)
	}
}

func TestLookup_KnownBounds(t *testing.T) {
	tests := []struct {
		bound int
		want  []int
	}{
		{0, []int{}},
		{1, []int{}},
		{2, []int{2}},
		{10, []int{2, 3, 5, 7}},
	}

	for _, name := range []string{"Default", "Naive", "Sieve", "Miller-Rabin"} {
		svc, _, _ := newTestService(t)
		for _, tt := range tests {
			resp, err := svc.Lookup(context.Background(), tt.bound, name, true)
			if err != nil {
				t.Fatalf("Lookup(%d, %s) error = %v", tt.bound, name, err)
			}
			if resp.Initial != tt.bound {
				t.Errorf("Initial = %d, want %d", resp.Initial, tt.bound)
			}
			if !reflect.DeepEqual(resp.Primes, tt.want) {
				t.Errorf("Lookup(%d, %s) = %v, want %v", tt.bound, name, resp.Primes, tt.want)
			}
		}
	}
}

func TestLookup_CacheHitSkipsEngine(t *testing.T) {
	svc, comp, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Lookup(ctx, 50, "Sieve", true)
	if err != nil {
		t.Fatalf("first Lookup error = %v", err)
	}
	second, err := svc.Lookup(ctx, 50, "Sieve", true)
	if err != nil {
		t.Fatalf("second Lookup error = %v", err)
	}

	if comp.count() != 1 {
		t.Errorf("engine calls = %d, want 1", comp.count())
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("responses differ: %v vs %v", first, second)
	}
}

func TestLookup_ResponseDoesNotAliasCache(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for range 2 {
		r, err := svc.Lookup(ctx, 10, "Sieve", true)
		if err != nil {
			t.Fatalf("Lookup error = %v", err)
		}
		r.Primes[0] = 99
	}

	got, err := svc.Lookup(ctx, 10, "Naive", true)
	if err != nil {
		t.Fatalf("Lookup error = %v", err)
	}
	if !reflect.DeepEqual(got.Primes, []int{2, 3, 5, 7}) {
		t.Fatalf("cached list was modified through a response: %v", got.Primes)
	}
}

func TestLookup_BypassStillWrites(t *testing.T) {
	svc, comp, mc := newTestService(t)
	ctx := context.Background()

	for range 3 {
		if _, err := svc.Lookup(ctx, 20, "Naive", false); err != nil {
			t.Fatalf("Lookup error = %v", err)
		}
	}
	if comp.count() != 3 {
		t.Errorf("engine calls = %d, want 3", comp.count())
	}
	if got, ok := mc.Get(ctx, 20); !ok || len(got) != 8 {
		t.Errorf("cache entry = %v, %v; want 8 primes", got, ok)
	}
	if _, err := svc.Lookup(ctx, 20, "Naive", true); err != nil {
		t.Fatalf("Lookup error = %v", err)
	}
	if comp.count() != 3 {
		t.Errorf("cached read called the engine: %d calls", comp.count())
	}
}

func TestLookup_CacheIgnoresAlgorithm(t *testing.T) {
	svc, comp, _ := newTestService(t)
	ctx := context.Background()

	naive, err := svc.Lookup(ctx, 30, "Naive", true)
	if err != nil {
		t.Fatalf("Lookup error = %v", err)
	}
	sieve, err := svc.Lookup(ctx, 30, "Sieve", true)
	if err != nil {
		t.Fatalf("Lookup error = %v", err)
	}

	if comp.count() != 1 || comp.calls[0] != prime.Naive {
		t.Errorf("engine calls = %v, want [Naive]", comp.calls)
	}
	if !reflect.DeepEqual(naive.Primes, sieve.Primes) {
		t.Errorf("cached list differs: %v vs %v", naive.Primes, sieve.Primes)
	}
}

func TestLookup_EmptyCachedListIsMiss(t *testing.T) {
	svc, comp, _ := newTestService(t)
	ctx := context.Background()

	for range 2 {
		if _, err := svc.Lookup(ctx, 1, "Default", true); err != nil {
			t.Fatalf("Lookup error = %v", err)
		}
	}
	if comp.count() != 2 {
		t.Errorf("engine calls = %d, want 2", comp.count())
	}
}

func TestLookup_NegativeBound(t *testing.T) {
	svc, comp, _ := newTestService(t)

	_, err := svc.Lookup(context.Background(), -5, "Default", true)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var inErr *InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("expected *InputError, got %T", err)
	}
	if want := "-5 is not allowed; only non negative number is allowed"; inErr.Error() != want {
		t.Errorf("message = %q, want %q", inErr.Error(), want)
	}
	if !errors.Is(err, cache.ErrInvalidKey) {
		t.Errorf("expected cause cache.ErrInvalidKey, got %v", err)
	}
	if comp.count() != 0 {
		t.Errorf("engine was called")
	}
}

func TestLookup_UnknownAlgorithm(t *testing.T) {
	svc, comp, _ := newTestService(t)

	for _, name := range []string{"ABC", "sieve", ""} {
		_, err := svc.Lookup(context.Background(), 15, name, true)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Lookup(%q) expected ErrInvalidInput, got %v", name, err)
		}
		if !errors.Is(err, prime.ErrUnsupportedAlgorithm) {
			t.Errorf("Lookup(%q) expected cause ErrUnsupportedAlgorithm", name)
		}
	}

	_, err := svc.Lookup(context.Background(), 15, "ABC", true)
	if want := "ABC is not accepted algorithm"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
	if comp.count() != 0 {
		t.Errorf("engine was called")
	}
}

func TestLookup_ComputationFailureNotCached(t *testing.T) {
	svc, comp, mc := newTestService(t)
	comp.err = prime.ErrComputation

	_, err := svc.Lookup(context.Background(), 10, "Sieve", true)
	if !errors.Is(err, prime.ErrComputation) {
		t.Fatalf("expected ErrComputation, got %v", err)
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("computation failure must not be reported as invalid input")
	}
	if mc.Len() != 0 {
		t.Errorf("failed computation was cached")
	}
}

func TestLookup_WithMiddleware(t *testing.T) {
	var logs bytes.Buffer
	mw := observe.NewMiddleware(nil, nil, observe.NewLoggerWithWriter("info", &logs))
	svc, _, _ := newTestService(t, WithMiddleware(mw))

	if _, err := svc.Lookup(context.Background(), 10, "Miller-Rabin", true); err != nil {
		t.Fatalf("Lookup error = %v", err)
	}
	if _, err := svc.Lookup(context.Background(), 10, "Miller-Rabin", true); err != nil {
		t.Fatalf("Lookup error = %v", err)
	}

	out := logs.String()
	if !bytes.Contains([]byte(out), []byte(`"algorithm":"Miller-Rabin"`)) {
		t.Errorf("expected algorithm in log, got %s", out)
	}
	if !bytes.Contains([]byte(out), []byte(`"cache_hit":true`)) {
		t.Errorf("expected a cache hit logged, got %s", out)
	}
}

func TestLookup_Concurrent(t *testing.T) {
	svc, _, _ := newTestService(t)
	want := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.Lookup(context.Background(), 30, "Default", i%2 == 0)
			if err != nil {
				t.Errorf("Lookup error = %v", err)
				return
			}
			if !reflect.DeepEqual(resp.Primes, want) {
				t.Errorf("Lookup = %v", resp.Primes)
			}
		}(i)
	}
	wg.Wait()
}
