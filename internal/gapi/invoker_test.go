package gapi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bpopineau/gspace/internal/dryrun"
)

type fakeRecorder struct {
	mu         sync.Mutex
	operations []string
	errors     int
	rateLimits int
	dryRuns    []string
}

func (r *fakeRecorder) RecordAPIOperation(ctx context.Context, service, operation string, duration time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, service+"."+operation)
	if err != nil {
		r.errors++
	}
}

func (r *fakeRecorder) RecordRateLimitHit(ctx context.Context, service string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rateLimits++
}

func (r *fakeRecorder) RecordDryRun(ctx context.Context, service, operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dryRuns = append(r.dryRuns, service+"."+operation)
}

func TestInvokerReadRetriesTransientErrors(t *testing.T) {
	recorder := &fakeRecorder{}
	inv := NewInvoker(ServiceDrive, nil, recorder, nil)

	calls := 0
	err := inv.Read(context.Background(), "files.list", func() error {
		calls++
		if calls < 2 {
			return apiError(503)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
	if len(recorder.operations) != 1 || recorder.operations[0] != "drive.files.list" {
		t.Errorf("Expected one recorded operation, got %v", recorder.operations)
	}
}

func TestInvokerWriteDoesNotRetry(t *testing.T) {
	inv := NewInvoker(ServiceGmail, nil, nil, nil)

	calls := 0
	err := inv.Write(context.Background(), "messages.send", func() error {
		calls++
		return apiError(503)
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Write must make exactly one attempt, got %d", calls)
	}
}

func TestInvokerWrapsErrors(t *testing.T) {
	inv := NewInvoker(ServiceDrive, nil, nil, nil)

	err := inv.Read(context.Background(), "files.get", func() error {
		return apiError(404)
	})

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound sentinel, got %v", err)
	}
}

func TestInvokerRecordsRateLimitHits(t *testing.T) {
	recorder := &fakeRecorder{}
	limiter := NewRateLimiterWithConfig(ServiceDrive, RateLimitConfig{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
	})
	inv := NewInvoker(ServiceDrive, limiter, recorder, nil)

	err := inv.Write(context.Background(), "files.delete", func() error {
		return apiError(429)
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if recorder.rateLimits != 1 {
		t.Errorf("Expected 1 rate limit hit recorded, got %d", recorder.rateLimits)
	}
	// The 429 must open the limiter's backoff window
	if limiter.Allow() {
		t.Error("Expected limiter to deny requests after 429")
	}
}

func TestInvokerSimulatedRecordsDryRun(t *testing.T) {
	recorder := &fakeRecorder{}
	inv := NewInvoker(ServiceDrive, nil, recorder, nil)

	report := dryrun.New("drive", "files.delete", "abc123")
	got := inv.Simulated(context.Background(), report)

	if got != report {
		t.Error("Simulated must return the report unchanged")
	}
	if len(recorder.dryRuns) != 1 || recorder.dryRuns[0] != "drive.files.delete" {
		t.Errorf("Expected one recorded dry-run, got %v", recorder.dryRuns)
	}
	if len(recorder.operations) != 0 {
		t.Errorf("A simulation must not count as an API operation, got %v", recorder.operations)
	}
}

func TestInvokerReadHonorsConfiguredPolicy(t *testing.T) {
	inv := NewInvoker(ServiceDrive, nil, nil, nil).WithReadPolicy(RetryPolicy{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
	})

	calls := 0
	err := inv.Read(context.Background(), "files.list", func() error {
		calls++
		return apiError(503)
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 2 {
		t.Errorf("Expected configured 2 attempts, got %d", calls)
	}
}

func TestInvokerIdempotentWriteCapsAttempts(t *testing.T) {
	inv := NewInvoker(ServiceDrive, nil, nil, nil).WithReadPolicy(RetryPolicy{
		MaxAttempts:    6,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
	})

	calls := 0
	err := inv.IdempotentWrite(context.Background(), "files.delete", func() error {
		calls++
		return apiError(503)
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 3 {
		t.Errorf("Idempotent writes must cap at 3 attempts, got %d", calls)
	}
}

func TestInvokerIdempotentWriteRetries(t *testing.T) {
	inv := NewInvoker(ServiceCalendar, nil, nil, nil)

	calls := 0
	err := inv.IdempotentWrite(context.Background(), "events.delete", func() error {
		calls++
		if calls < 2 {
			return apiError(500)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}
