package gapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
)

func apiError(code int) error {
	return &googleapi.Error{Code: code, Message: http.StatusText(code)}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "429", err: apiError(429), want: true},
		{name: "500", err: apiError(500), want: true},
		{name: "502", err: apiError(502), want: true},
		{name: "503", err: apiError(503), want: true},
		{name: "504", err: apiError(504), want: true},
		{name: "400", err: apiError(400), want: false},
		{name: "401", err: apiError(401), want: false},
		{name: "403", err: apiError(403), want: false},
		{name: "404", err: apiError(404), want: false},
		{name: "wrapped 503", err: fmt.Errorf("listing files: %w", apiError(503)), want: true},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		sentinel error
	}{
		{name: "unauthorized", code: 401, sentinel: ErrUnauthorized},
		{name: "forbidden", code: 403, sentinel: ErrForbidden},
		{name: "not found", code: 404, sentinel: ErrNotFound},
		{name: "rate limited", code: 429, sentinel: ErrRateLimited},
		{name: "server error", code: 500, sentinel: ErrServer},
		{name: "bad gateway", code: 502, sentinel: ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(apiError(tt.code))
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("WrapError(%d) = %v, want sentinel %v", tt.code, wrapped, tt.sentinel)
			}

			// The original googleapi error must stay reachable
			var gerr *googleapi.Error
			if !errors.As(wrapped, &gerr) {
				t.Errorf("WrapError(%d) lost the underlying googleapi.Error", tt.code)
			}
		})
	}
}

func TestWrapErrorPassthrough(t *testing.T) {
	if WrapError(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	plain := errors.New("not an api error")
	if got := WrapError(plain); got != plain {
		t.Errorf("Expected passthrough for non-API error, got %v", got)
	}

	// 4xx codes without a sentinel pass through unchanged
	badReq := apiError(400)
	if got := WrapError(badReq); got != badReq {
		t.Errorf("Expected passthrough for 400, got %v", got)
	}
}

func TestClassifiers(t *testing.T) {
	if !IsNotFound(apiError(404)) {
		t.Error("Expected IsNotFound for 404")
	}
	if !IsNotFound(WrapError(apiError(404))) {
		t.Error("Expected IsNotFound for wrapped 404")
	}
	if !IsUnauthorized(apiError(401)) {
		t.Error("Expected IsUnauthorized for 401")
	}
	if !IsForbidden(apiError(403)) {
		t.Error("Expected IsForbidden for 403")
	}
	if !IsRateLimited(apiError(429)) {
		t.Error("Expected IsRateLimited for 429")
	}
	if IsNotFound(apiError(500)) {
		t.Error("Did not expect IsNotFound for 500")
	}
}

func TestRetryAfter(t *testing.T) {
	err := &googleapi.Error{
		Code:   429,
		Header: http.Header{"Retry-After": []string{"30"}},
	}
	if got := RetryAfter(err); got != 30 {
		t.Errorf("RetryAfter = %d, want 30", got)
	}

	if got := RetryAfter(apiError(429)); got != 0 {
		t.Errorf("RetryAfter without header = %d, want 0", got)
	}

	// HTTP-date form is not parsed; treat as no hint
	dateErr := &googleapi.Error{
		Code:   429,
		Header: http.Header{"Retry-After": []string{"Wed, 21 Oct 2015 07:28:00 GMT"}},
	}
	if got := RetryAfter(dateErr); got != 0 {
		t.Errorf("RetryAfter with date header = %d, want 0", got)
	}
}
