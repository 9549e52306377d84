package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/primeops/cache"
	"github.com/jonwraymond/primeops/lookup"
	"github.com/jonwraymond/primeops/observe"
	"github.com/jonwraymond/primeops/prime"
	"github.com/jonwraymond/primeops/resilience"
)

func newTestServer(t *testing.T, svc Lookuper, opts ...HandlerOption) *httptest.Server {
	t.Helper()
	if svc == nil {
		s, err := lookup.NewService(prime.NewEngine(prime.WithSeed(3)), cache.NewMemoryCache())
		if err != nil {
			t.Fatal(err)
		}
		svc = s
	}
	srv := httptest.NewServer(NewRouter(RouterConfig{Primes: NewHandler(svc, opts...)}))
	t.Cleanup(srv.Close)
	return srv
}

func doGet(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body), resp.Header
}

func TestHandler_Success(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/primes/10", `{"Initial":10,"Primes":[2,3,5,7]}`},
		{"/primes/10?algorithmName=Naive", `{"Initial":10,"Primes":[2,3,5,7]}`},
		{"/primes/10?algorithmName=Sieve&readFromCache=false", `{"Initial":10,"Primes":[2,3,5,7]}`},
		{"/primes/13?algorithmName=Miller-Rabin", `{"Initial":13,"Primes":[2,3,5,7,11,13]}`},
		{"/primes/0", `{"Initial":0,"Primes":[]}`},
		{"/primes/1?algorithmName=Sieve", `{"Initial":1,"Primes":[]}`},
		{"/primes/2", `{"Initial":2,"Primes":[2]}`},
	}
	for _, tt := range tests {
		code, body, hdr := doGet(t, srv.URL+tt.path)
		if code != http.StatusOK {
			t.Fatalf("GET %s = %d %q", tt.path, code, body)
		}
		if ct := hdr.Get("Content-Type"); ct != "application/json" {
			t.Errorf("GET %s Content-Type = %q", tt.path, ct)
		}
		if strings.TrimSpace(body) != tt.want {
			t.Errorf("GET %s = %s, want %s", tt.path, body, tt.want)
		}
	}
}

func TestHandler_BadRequest(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/primes/-5", "-5 is not allowed; only non negative number is allowed"},
		{"/primes/15?algorithmName=ABC", "ABC is not accepted algorithm"},
		{"/primes/abc", "abc is not a valid number"},
		{"/primes/10?readFromCache=maybe", "maybe is not a valid boolean for readFromCache"},
	}
	for _, tt := range tests {
		code, body, hdr := doGet(t, srv.URL+tt.path)
		if code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", tt.path, code)
		}
		if body != tt.want {
			t.Errorf("GET %s body = %q, want %q", tt.path, body, tt.want)
		}
		if !strings.HasPrefix(hdr.Get("Content-Type"), "text/plain") {
			t.Errorf("GET %s Content-Type = %q", tt.path, hdr.Get("Content-Type"))
		}
	}
}

type stubLookuper struct {
	fn func(ctx context.Context) (lookup.Response, error)
}

func (s stubLookuper) Lookup(ctx context.Context, _ int, _ string, _ bool) (lookup.Response, error) {
	return s.fn(ctx)
}

func TestHandler_ComputationFailure(t *testing.T) {
	srv := newTestServer(t, stubLookuper{fn: func(context.Context) (lookup.Response, error) {
		return lookup.Response{}, fmt.Errorf("%w: out of memory", prime.ErrComputation)
	}})

	code, body, _ := doGet(t, srv.URL+"/primes/10")
	if code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", code)
	}
	if !strings.Contains(body, "out of memory") {
		t.Errorf("body = %q", body)
	}
}

type failingComputer struct{}

func (failingComputer) Compute(int, prime.Algorithm) ([]int, error) {
	return nil, fmt.Errorf("%w: out of memory", prime.ErrComputation)
}

func TestHandler_ComputationFailureLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	svc, err := lookup.NewService(failingComputer{}, cache.NewMemoryCache(),
		lookup.WithMiddleware(observe.NewMiddleware(nil, nil, logger)),
		lookup.WithLogger(logger),
	)
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, svc, WithLogger(logger))

	if code, _, _ := doGet(t, srv.URL+"/primes/10"); code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", code)
	}
	if n := strings.Count(buf.String(), `"message":"prime lookup failed"`); n != 1 {
		t.Fatalf("failure logged %d times, want 1:\n%s", n, buf.String())
	}
}

func TestHandler_RateLimited(t *testing.T) {
	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 0.001, Burst: 1})
	srv := newTestServer(t, nil, WithGuard(resilience.NewGuard(resilience.WithRateLimiter(rl))))

	if code, _, _ := doGet(t, srv.URL+"/primes/10"); code != http.StatusOK {
		t.Fatalf("first request = %d", code)
	}
	code, _, hdr := doGet(t, srv.URL+"/primes/10")
	if code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", code)
	}
	if hdr.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}

func TestHandler_BulkheadFull(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := stubLookuper{fn: func(context.Context) (lookup.Response, error) {
		close(started)
		<-release
		return lookup.Response{Initial: 2, Primes: []int{2}}, nil
	}}
	bh := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 1})
	srv := newTestServer(t, svc, WithGuard(resilience.NewGuard(resilience.WithBulkhead(bh))))

	done := make(chan int)
	go func() {
		resp, err := http.Get(srv.URL + "/primes/2")
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()
	<-started

	code, _, _ := doGet(t, srv.URL+"/primes/2")
	close(release)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("concurrent request = %d, want 503", code)
	}
	if first := <-done; first != http.StatusOK {
		t.Errorf("first request = %d", first)
	}
}

func TestHandler_CacheBypassStillServes(t *testing.T) {
	calls := 0
	svc := stubLookuper{fn: func(context.Context) (lookup.Response, error) {
		calls++
		return lookup.Response{Initial: 3, Primes: []int{2, 3}}, nil
	}}
	h := NewHandler(svc)
	mux := http.NewServeMux()
	mux.Handle("GET /primes/{bound}", h)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/primes/3?readFromCache=false", nil))
	if rec.Code != http.StatusOK || calls != 1 {
		t.Fatalf("code=%d calls=%d", rec.Code, calls)
	}
}

func TestHandler_CanceledRequest(t *testing.T) {
	h := NewHandler(stubLookuper{fn: func(ctx context.Context) (lookup.Response, error) {
		return lookup.Response{}, context.Canceled
	}})
	mux := http.NewServeMux()
	mux.Handle("GET /primes/{bound}", h)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/primes/3", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", rec.Code)
	}
}
