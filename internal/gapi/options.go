package gapi

import "context"

// CallOptions collects per-call behavior shared by all mutating wrapper
// methods.
type CallOptions struct {
	// DryRun simulates the mutation: no mutating API call is made and the
	// method returns a dry-run report instead of the domain result.
	DryRun bool

	// Reason is an optional caller-supplied justification recorded in
	// dry-run reports.
	Reason string

	// RetryWrite marks the mutation safe to repeat, enabling the
	// idempotent write retry policy.
	RetryWrite bool
}

// CallOption configures a single wrapper call.
type CallOption func(*CallOptions)

// DryRun requests a simulation with an optional reason.
func DryRun(reason string) CallOption {
	return func(o *CallOptions) {
		o.DryRun = true
		o.Reason = reason
	}
}

// RetryWrite marks the mutation safe to repeat on transient failures.
func RetryWrite() CallOption {
	return func(o *CallOptions) {
		o.RetryWrite = true
	}
}

// ApplyOptions folds opts into a CallOptions value.
func ApplyOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Mutate dispatches a mutation through the invoker with the retry policy
// selected by opts: single attempt by default, idempotent retry when the
// caller marked the write safe to repeat.
func (i *Invoker) Mutate(ctx context.Context, operation string, opts CallOptions, fn func() error) error {
	if opts.RetryWrite {
		return i.IdempotentWrite(ctx, operation, fn)
	}
	return i.Write(ctx, operation, fn)
}
