package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
)

// RateLimiter paces GitHub API calls. It never retries a request and never
// sleeps until a quota reset.
type RateLimiter interface {
	Wait(ctx context.Context) error
	CheckLimit() (remaining int, resetTime time.Time, err error)
	UpdateLimit(remaining int, resetTime time.Time)
}

// lowWatermark is the remaining quota at which a warning is logged
const lowWatermark = 10

// githubRateLimiter implements RateLimiter for GitHub API
type githubRateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	minDelay  time.Duration
	lastCall  time.Time
	warned    bool
	logger    *slog.Logger
}

// NewRateLimiter creates a new rate limiter enforcing minDelay between calls
func NewRateLimiter(minDelay time.Duration, logger *slog.Logger) RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &githubRateLimiter{
		remaining: 60, // unauthenticated GitHub API limit
		resetTime: time.Now().Add(time.Hour),
		minDelay:  minDelay,
		logger:    logger,
	}
}

// Wait enforces the minimum delay between calls. An exhausted quota fails
// fast with a rate limited error so the caller can degrade that repository.
func (r *githubRateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if r.remaining <= 0 && time.Now().Before(r.resetTime) {
		return apperrors.NewRateLimitedError(
			fmt.Sprintf("rate limit exhausted until %s", r.resetTime.Format(time.RFC3339)), nil)
	}
	if r.remaining <= lowWatermark && !r.warned {
		r.logger.Warn("rate limit low", "remaining", r.remaining, "reset", r.resetTime.Format(time.Kitchen))
		r.warned = true
	}

	elapsed := time.Since(r.lastCall)
	if elapsed < r.minDelay {
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		case <-time.After(r.minDelay - elapsed):
			r.mu.Lock()
		}
	}

	r.lastCall = time.Now()
	return nil
}

// CheckLimit returns the current rate limit status
func (r *githubRateLimiter) CheckLimit() (remaining int, resetTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining, r.resetTime, nil
}

// UpdateLimit updates the rate limit from API response headers
func (r *githubRateLimiter) UpdateLimit(remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if remaining > lowWatermark {
		r.warned = false
	}
	r.remaining = remaining
	r.resetTime = resetTime
}
