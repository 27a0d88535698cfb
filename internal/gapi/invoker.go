package gapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/logging"
)

// OperationRecorder receives metrics about completed API operations. It is
// implemented by the instrumentation package; a nil recorder disables
// recording.
type OperationRecorder interface {
	RecordAPIOperation(ctx context.Context, service, operation string, duration time.Duration, err error)
	RecordRateLimitHit(ctx context.Context, service string)
	RecordDryRun(ctx context.Context, service, operation string)
}

// Invoker routes wrapper calls through the rate limiter, the retry policy
// appropriate for the call, error wrapping and metrics recording.
type Invoker struct {
	service    Service
	limiter    *RateLimiter
	recorder   OperationRecorder
	logger     *slog.Logger
	readPolicy RetryPolicy
}

// NewInvoker creates an invoker for a service. limiter may be nil to disable
// client-side rate limiting, recorder may be nil to disable metrics, and
// logger may be nil to discard debug logs.
func NewInvoker(service Service, limiter *RateLimiter, recorder OperationRecorder, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Invoker{
		service:    service,
		limiter:    limiter,
		recorder:   recorder,
		logger:     logging.WithService(logger, string(service)),
		readPolicy: ReadPolicy(),
	}
}

// WithReadPolicy overrides the read retry policy. The idempotent write
// policy derives from it, capped at three attempts.
func (i *Invoker) WithReadPolicy(policy RetryPolicy) *Invoker {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	i.readPolicy = policy
	return i
}

// Service returns the service this invoker is bound to.
func (i *Invoker) Service() Service {
	return i.service
}

// Read executes an idempotent read with the read retry policy.
func (i *Invoker) Read(ctx context.Context, operation string, fn func() error) error {
	return i.invoke(ctx, operation, i.readPolicy, fn)
}

// Write executes a mutation with a single attempt. Writes are not retried
// by default: a retried create can duplicate the resource.
func (i *Invoker) Write(ctx context.Context, operation string, fn func() error) error {
	return i.invoke(ctx, operation, WritePolicy(), fn)
}

// Simulated records a mutation that was answered with a dry-run report
// instead of an API call, and returns the report unchanged.
func (i *Invoker) Simulated(ctx context.Context, report *dryrun.Report) *dryrun.Report {
	if report == nil {
		return nil
	}
	if i.recorder != nil {
		i.recorder.RecordDryRun(ctx, report.Service, report.Action)
	}
	i.logger.Debug("mutation simulated", logging.Operation(report.Action))
	return report
}

// IdempotentWrite executes a mutation that is safe to repeat, such as a
// delete or an update keyed by resource ID.
func (i *Invoker) IdempotentWrite(ctx context.Context, operation string, fn func() error) error {
	policy := i.readPolicy
	if policy.MaxAttempts > 3 {
		policy.MaxAttempts = 3
	}
	return i.invoke(ctx, operation, policy, fn)
}

func (i *Invoker) invoke(ctx context.Context, operation string, policy RetryPolicy, fn func() error) error {
	start := time.Now()

	err := Retry(ctx, policy, func() error {
		if i.limiter != nil {
			if err := i.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		callErr := fn()
		if callErr != nil && IsRateLimited(callErr) {
			if i.limiter != nil {
				i.limiter.RecordRateLimitError(RetryAfter(callErr))
			}
			if i.recorder != nil {
				i.recorder.RecordRateLimitHit(ctx, string(i.service))
			}
		}
		return callErr
	})

	duration := time.Since(start)
	if i.recorder != nil {
		i.recorder.RecordAPIOperation(ctx, string(i.service), operation, duration, err)
	}

	if err != nil {
		i.logger.Debug("api operation failed",
			logging.Operation(operation),
			slog.Duration(logging.KeyDuration, duration),
			logging.Err(err))
		return WrapError(err)
	}

	i.logger.Debug("api operation completed",
		logging.Operation(operation),
		slog.Duration(logging.KeyDuration, duration))
	return nil
}
