package workspace

import (
	"context"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/bpopineau/gspace/internal/config"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

func TestDefaultAccount(t *testing.T) {
	w := New(&config.Config{Account: "work"}, nil, nil)
	if got := w.DefaultAccount(); got != "work" {
		t.Errorf("DefaultAccount = %s, want work", got)
	}
	if got := w.account(""); got != "work" {
		t.Errorf("account(\"\") = %s, want work", got)
	}
	if got := w.account("personal"); got != "personal" {
		t.Errorf("account(personal) = %s", got)
	}
}

func TestDefaultAccountFallback(t *testing.T) {
	w := New(&config.Config{}, nil, nil)
	if got := w.DefaultAccount(); got != "default" {
		t.Errorf("DefaultAccount = %s, want default", got)
	}
}

func TestNewNilConfig(t *testing.T) {
	w := New(nil, nil, nil)
	if w.cfg == nil {
		t.Fatal("Nil config must fall back to defaults")
	}
	if w.DefaultAccount() != "default" {
		t.Errorf("DefaultAccount = %s", w.DefaultAccount())
	}
}

func TestLimiterShared(t *testing.T) {
	w := New(config.Default(), nil, nil)

	w.mu.Lock()
	first := w.limiter(gapi.ServiceDrive)
	second := w.limiter(gapi.ServiceDrive)
	other := w.limiter(gapi.ServiceGmail)
	w.mu.Unlock()

	if first != second {
		t.Error("Limiter must be shared per service")
	}
	if first == other {
		t.Error("Different services must not share a limiter")
	}
}

func TestWithTokenProvider(t *testing.T) {
	provider := &google.StaticTokenProvider{
		Tokens: map[string]*oauth2.Token{
			"work": {
				AccessToken: "at",
				TokenType:   "Bearer",
				Expiry:      time.Now().Add(time.Hour),
			},
		},
	}
	w := New(&config.Config{Account: "work"}, nil, nil).WithTokenProvider(provider)

	c, err := w.Drive(context.Background(), "")
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if c.Account() != "work" {
		t.Errorf("Account = %s, want work", c.Account())
	}

	// Accounts without a provider token must not get a client
	if _, err := w.Drive(context.Background(), "other"); err == nil {
		t.Error("Expected error for account without a token")
	}
}

func TestRetryPolicyFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Retry = config.RetryConfig{
		MaxAttempts:      2,
		InitialBackoffMS: 100,
		MaxBackoffMS:     1000,
		Multiplier:       3,
	}
	w := New(cfg, nil, nil)

	policy := w.retryPolicy()
	if policy.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", policy.MaxAttempts)
	}
	if policy.InitialBackoff != 100*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 100ms", policy.InitialBackoff)
	}
	if policy.MaxBackoff != time.Second {
		t.Errorf("MaxBackoff = %v, want 1s", policy.MaxBackoff)
	}
	if policy.Multiplier != 3 {
		t.Errorf("Multiplier = %v, want 3", policy.Multiplier)
	}
}

func TestLimiterOverride(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimits = map[string]config.RateLimit{
		"drive": {RequestsPerSecond: 1, BurstSize: 1},
	}
	w := New(cfg, nil, nil)

	w.mu.Lock()
	limiter := w.limiter(gapi.ServiceDrive)
	w.mu.Unlock()

	// Burst of one is immediately consumable exactly once
	if !limiter.Allow() {
		t.Fatal("First request must pass")
	}
	if limiter.Allow() {
		t.Error("Second immediate request must be throttled with burst size 1")
	}
}
