package resilience

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// Rate is the sustained number of operations per second. Default: 100.
	Rate float64

	// Burst is the bucket size. Default: 10.
	Burst int

	// MaxWait is how long Wait may block for a token. Zero means Execute
	// never waits and rejects as soon as the bucket is empty.
	MaxWait time.Duration
}

// RateLimiter is a token bucket.
type RateLimiter struct {
	limiter  *rate.Limiter
	maxWait  time.Duration
	rejected atomic.Int64
}

// NewRateLimiter creates a RateLimiter with a full bucket.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 100
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		maxWait: max(cfg.MaxWait, 0),
	}
}

// Allow takes a token if one is available now.
func (rl *RateLimiter) Allow() bool {
	if rl.limiter.Allow() {
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Wait blocks up to MaxWait for a token. It returns ErrRateLimitExceeded if
// no token can be had in time and ctx.Err() when ctx is done first.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.maxWait == 0 {
		if rl.Allow() {
			return nil
		}
		return ErrRateLimitExceeded
	}

	r := rl.limiter.Reserve()
	if !r.OK() {
		rl.rejected.Add(1)
		return ErrRateLimitExceeded
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	if delay > rl.maxWait {
		r.Cancel()
		rl.rejected.Add(1)
		return ErrRateLimitExceeded
	}

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Execute runs op once a token is obtained.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Wait(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// Tokens returns the number of tokens currently in the bucket.
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.Tokens()
}

// Rejected returns how many requests were turned away.
func (rl *RateLimiter) Rejected() int64 {
	return rl.rejected.Load()
}
