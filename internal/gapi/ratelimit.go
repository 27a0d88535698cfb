package gapi

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Service identifies a Google API service for rate limiting and metrics.
type Service string

const (
	ServiceDrive    Service = "drive"
	ServiceSheets   Service = "sheets"
	ServiceDocs     Service = "docs"
	ServiceCalendar Service = "calendar"
	ServiceTasks    Service = "tasks"
	ServiceGmail    Service = "gmail"
	ServiceContacts Service = "contacts"
)

// RateLimitConfig holds rate limiting configuration for a service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits provides conservative defaults for each service, well
// below Google's published quotas.
var DefaultRateLimits = map[Service]RateLimitConfig{
	ServiceDrive:    {RequestsPerSecond: 8.0, BurstSize: 10},
	ServiceSheets:   {RequestsPerSecond: 1.0, BurstSize: 3}, // 60 writes/min/user quota
	ServiceDocs:     {RequestsPerSecond: 3.0, BurstSize: 5},
	ServiceCalendar: {RequestsPerSecond: 5.0, BurstSize: 10},
	ServiceTasks:    {RequestsPerSecond: 5.0, BurstSize: 10},
	ServiceGmail:    {RequestsPerSecond: 2.0, BurstSize: 5}, // conservative for quota units
	ServiceContacts: {RequestsPerSecond: 3.0, BurstSize: 5},
}

// RateLimiter provides client-side rate limiting for Google API requests
// using a token bucket, with an additional backoff window recorded from 429
// responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	service Service
}

// NewRateLimiter creates a rate limiter with the default configuration for
// the given service.
func NewRateLimiter(service Service) *RateLimiter {
	cfg, ok := DefaultRateLimits[service]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	return NewRateLimiterWithConfig(service, cfg)
}

// NewRateLimiterWithConfig creates a rate limiter with a custom configuration.
func NewRateLimiterWithConfig(service Service, cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		service: service,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff window set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if until := time.Until(retryAt); until > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(until):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError records a 429 from the API and opens a backoff window.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 60
	}
	r.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// Allow reports whether a request can be made immediately without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
