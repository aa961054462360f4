package microsoft

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ServiceType identifies a Microsoft Graph API service for rate limiting purposes.
type ServiceType string

const (
	// ServiceOneNote is the OneNote notes API service.
	ServiceOneNote ServiceType = "onenote"
	// ServiceDirectory covers profile lookups such as /me.
	ServiceDirectory ServiceType = "directory"
)

// RateLimitConfig holds rate limiting configuration for a service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits provides conservative defaults for each Microsoft service.
// OneNote allows 120 requests per minute and 400 per hour per user and app.
var DefaultRateLimits = map[ServiceType]RateLimitConfig{
	ServiceOneNote:   {RequestsPerSecond: 2.0, BurstSize: 10},
	ServiceDirectory: {RequestsPerSecond: 10.0, BurstSize: 15},
}

// RateLimiter provides rate limiting for Microsoft Graph API requests.
// It uses a token bucket algorithm with optional backoff for 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	service ServiceType
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
// A non-positive rate disables the token bucket.
func NewRateLimiterWithConfig(service ServiceType, cfg RateLimitConfig) *RateLimiter {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, cfg.BurstSize),
		service: service,
	}
}

// Service returns the service this limiter throttles.
func (r *RateLimiter) Service() ServiceType {
	return r.service
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// First, check for backoff from previous rate limit errors
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	// Then wait for the token bucket
	return r.limiter.Wait(ctx)
}

// RecordRateLimitError records a rate limit error and sets a backoff period.
// Call this when receiving a 429 response from Microsoft Graph APIs.
// The request itself is not retried; the backoff applies to the next one.
// The retryAfterSeconds parameter should come from the Retry-After header.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfterSeconds <= 0 {
		// Default backoff: 60 seconds
		retryAfterSeconds = 60
	}

	r.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// Allow checks if a request can be made immediately without blocking.
// Returns true if the request is allowed, false if it would exceed the rate limit.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}

	return r.limiter.Allow()
}

// RetryAfterSeconds parses a Retry-After header given in delta-seconds.
// Returns 0 when the header is absent or not a number.
func RetryAfterSeconds(header string) int {
	n, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
