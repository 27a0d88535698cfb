package gapi

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryPolicy controls retry behavior for a single API call.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialBackoff is the base delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed delay.
	MaxBackoff time.Duration

	// Multiplier scales the delay between attempts.
	Multiplier float64
}

// ReadPolicy returns the default policy for idempotent reads: retry
// transient failures with exponential backoff and full jitter.
func ReadPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     32 * time.Second,
		Multiplier:     2,
	}
}

// WritePolicy returns the default policy for mutations: a single attempt.
// Retrying a write that may have reached the server risks duplicates.
func WritePolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// backoff computes the delay before retry attempt n (0-based) with full
// jitter: a uniform random duration up to the exponential cap.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := float64(p.InitialBackoff)
	for i := 0; i < attempt; i++ {
		d *= p.Multiplier
	}
	if max := float64(p.MaxBackoff); d > max {
		d = max
	}
	return time.Duration(rand.Int63n(int64(d) + 1))
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// policy's attempts are exhausted. A Retry-After hint from the API overrides
// the computed backoff, capped at the policy's maximum. The context is
// honored between attempts.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := policy.backoff(attempt - 1)
			if hint := RetryAfter(err); hint > 0 {
				delay = time.Duration(hint) * time.Second
				if policy.MaxBackoff > 0 && delay > policy.MaxBackoff {
					delay = policy.MaxBackoff
				}
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", policy.MaxAttempts, err)
}
