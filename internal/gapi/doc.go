// Package gapi contains the shared plumbing used by every Google service
// wrapper: error classification for the googleapi error family, retry with
// exponential backoff and jitter, client-side rate limiting, generic
// pagination collection, and RFC3339 time handling.
//
// Wrappers route their calls through an Invoker, which applies the rate
// limiter, the retry policy appropriate for the call (reads retry transient
// failures, writes do not unless explicitly marked idempotent) and records
// operation metrics.
package gapi
