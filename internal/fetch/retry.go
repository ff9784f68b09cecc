package fetch

import (
	"context"
	"math"
	"time"
)

// RetryPolicy decides how many attempts an operation gets and how long
// to wait between them. Page fetches and asset downloads share the same
// attempt budget but carry different backoff shapes.
type RetryPolicy interface {
	MaxAttempts() int
	Backoff(attempt int) time.Duration
}

// ExponentialRetryPolicy grows the delay as base^attempt plus a fixed
// offset. Used for page fetches, where spacing out attempts lowers the
// chance of tripping rate limiting.
type ExponentialRetryPolicy struct {
	maxAttempts int
	base        float64
	unit        time.Duration
	offset      time.Duration
}

// NewExponentialRetryPolicy builds the page-fetch policy.
func NewExponentialRetryPolicy(maxAttempts int, unit time.Duration, offset time.Duration) *ExponentialRetryPolicy {
	return &ExponentialRetryPolicy{
		maxAttempts: maxAttempts,
		base:        2,
		unit:        unit,
		offset:      offset,
	}
}

// MaxAttempts returns the attempt budget.
func (p *ExponentialRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// Backoff returns the delay before the attempt following attempt
// (zero-based).
func (p *ExponentialRetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Duration(math.Pow(p.base, float64(attempt))*float64(p.unit)) + p.offset
}

// LinearRetryPolicy grows the delay by a fixed increment per attempt.
// Used for asset downloads, which are expected to be faster and more
// failure-tolerant than full pages.
type LinearRetryPolicy struct {
	maxAttempts int
	increment   time.Duration
}

// NewLinearRetryPolicy builds the asset-download policy.
func NewLinearRetryPolicy(maxAttempts int, increment time.Duration) *LinearRetryPolicy {
	return &LinearRetryPolicy{
		maxAttempts: maxAttempts,
		increment:   increment,
	}
}

// MaxAttempts returns the attempt budget.
func (p *LinearRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// Backoff returns increment*(attempt+1) for the zero-based attempt.
func (p *LinearRetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return p.increment * time.Duration(attempt+1)
}

// Sleeper abstracts the backoff wait so tests run without real delays.
type Sleeper interface {
	Pause(ctx context.Context, delay time.Duration)
}

// TimerSleeper waits on a timer, returning early on context
// cancellation.
type TimerSleeper struct{}

// Pause blocks for delay or until ctx finishes.
func (TimerSleeper) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
