package resilience

import "context"

// Guard composes a rate limiter and a bulkhead. Either may be omitted.
type Guard struct {
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithRateLimiter admits operations through rl.
func WithRateLimiter(rl *RateLimiter) GuardOption {
	return func(g *Guard) {
		g.rateLimiter = rl
	}
}

// WithBulkhead runs operations inside b.
func WithBulkhead(b *Bulkhead) GuardOption {
	return func(g *Guard) {
		g.bulkhead = b
	}
}

// NewGuard creates a Guard. With no options it runs operations directly.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute runs op after the rate limiter admits it and while holding a
// bulkhead slot. Errors from op are returned unchanged.
func (g *Guard) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op

	if g.bulkhead != nil {
		inner := run
		run = func(ctx context.Context) error {
			return g.bulkhead.Execute(ctx, inner)
		}
	}

	if g.rateLimiter != nil {
		inner := run
		run = func(ctx context.Context) error {
			return g.rateLimiter.Execute(ctx, inner)
		}
	}

	return run(ctx)
}

// RateLimiter returns the configured rate limiter, or nil.
func (g *Guard) RateLimiter() *RateLimiter { return g.rateLimiter }

// Bulkhead returns the configured bulkhead, or nil.
func (g *Guard) Bulkhead() *Bulkhead { return g.bulkhead }
