package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"
	docsapi "google.golang.org/api/docs/v1"
	driveapi "google.golang.org/api/drive/v3"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
	sheetsapi "google.golang.org/api/sheets/v4"
	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/bpopineau/gspace/internal/calendar"
	"github.com/bpopineau/gspace/internal/config"
	"github.com/bpopineau/gspace/internal/contacts"
	"github.com/bpopineau/gspace/internal/docs"
	"github.com/bpopineau/gspace/internal/drive"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/gmail"
	"github.com/bpopineau/gspace/internal/google"
	"github.com/bpopineau/gspace/internal/sheets"
	"github.com/bpopineau/gspace/internal/tasks"
)

// Workspace builds and caches per-account service clients.
type Workspace struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder gapi.OperationRecorder
	tokens   google.TokenProvider

	mu       sync.Mutex
	limiters map[gapi.Service]*gapi.RateLimiter
	drive    map[string]*drive.Client
	sheets   map[string]*sheets.Client
	docs     map[string]*docs.Client
	calendar map[string]*calendar.Client
	tasks    map[string]*tasks.Client
	gmail    map[string]*gmail.Client
	contacts map[string]*contacts.Client
}

// New creates a workspace. logger may be nil to discard logs, recorder
// may be nil to disable metrics.
func New(cfg *config.Config, logger *slog.Logger, recorder gapi.OperationRecorder) *Workspace {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workspace{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		limiters: make(map[gapi.Service]*gapi.RateLimiter),
		drive:    make(map[string]*drive.Client),
		sheets:   make(map[string]*sheets.Client),
		docs:     make(map[string]*docs.Client),
		calendar: make(map[string]*calendar.Client),
		tasks:    make(map[string]*tasks.Client),
		gmail:    make(map[string]*gmail.Client),
		contacts: make(map[string]*contacts.Client),
	}
}

// DefaultAccount returns the configured default account name.
func (w *Workspace) DefaultAccount() string {
	if w.cfg.Account != "" {
		return w.cfg.Account
	}
	return "default"
}

// account normalizes an account reference to a concrete account name.
func (w *Workspace) account(name string) string {
	if name == "" {
		return w.DefaultAccount()
	}
	return name
}

// limiter returns the shared per-service rate limiter, applying any
// configured override on first use. Callers hold w.mu.
func (w *Workspace) limiter(service gapi.Service) *gapi.RateLimiter {
	if l, ok := w.limiters[service]; ok {
		return l
	}

	var l *gapi.RateLimiter
	if override, ok := w.cfg.RateLimits[string(service)]; ok {
		l = gapi.NewRateLimiterWithConfig(service, gapi.RateLimitConfig{
			RequestsPerSecond: override.RequestsPerSecond,
			BurstSize:         override.BurstSize,
		})
	} else {
		l = gapi.NewRateLimiter(service)
	}
	w.limiters[service] = l
	return l
}

// invoker builds an invoker bound to the shared limiter and recorder, with
// the read retry policy taken from the config. Callers hold w.mu.
func (w *Workspace) invoker(service gapi.Service) *gapi.Invoker {
	return gapi.NewInvoker(service, w.limiter(service), w.recorder, w.logger).
		WithReadPolicy(w.retryPolicy())
}

// retryPolicy converts the configured retry settings into the policy
// applied to reads and idempotent writes.
func (w *Workspace) retryPolicy() gapi.RetryPolicy {
	r := w.cfg.Retry
	return gapi.RetryPolicy{
		MaxAttempts:    r.MaxAttempts,
		InitialBackoff: time.Duration(r.InitialBackoffMS) * time.Millisecond,
		MaxBackoff:     time.Duration(r.MaxBackoffMS) * time.Millisecond,
		Multiplier:     r.Multiplier,
	}
}

// WithTokenProvider overrides where account tokens come from. The default
// is the per-account token files on disk.
func (w *Workspace) WithTokenProvider(provider google.TokenProvider) *Workspace {
	w.tokens = provider
	return w
}

func (w *Workspace) httpClient(ctx context.Context, account string) (*http.Client, error) {
	var (
		httpClient *http.Client
		err        error
	)
	if w.tokens != nil {
		httpClient, err = google.GetHTTPClientForAccountWithProvider(ctx, account, w.tokens)
	} else {
		httpClient, err = google.GetHTTPClientForAccount(ctx, account)
	}
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}
	return httpClient, nil
}

// Drive returns the Drive client for an account, building it on first
// use. An empty account means the configured default.
func (w *Workspace) Drive(ctx context.Context, account string) (*drive.Client, error) {
	account = w.account(account)

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.drive[account]; ok {
		return c, nil
	}

	httpClient, err := w.httpClient(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := driveapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	c := drive.New(svc, w.invoker(gapi.ServiceDrive), account)
	w.drive[account] = c
	return c, nil
}

// Sheets returns the Sheets client for an account. The Drive client for
// the same account serves as its title resolver.
func (w *Workspace) Sheets(ctx context.Context, account string) (*sheets.Client, error) {
	account = w.account(account)

	resolver, err := w.Drive(ctx, account)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.sheets[account]; ok {
		return c, nil
	}

	httpClient, err := w.httpClient(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	c := sheets.New(svc, w.invoker(gapi.ServiceSheets), resolver, account)
	w.sheets[account] = c
	return c, nil
}

// Docs returns the Docs client for an account, with Drive-backed title
// resolution.
func (w *Workspace) Docs(ctx context.Context, account string) (*docs.Client, error) {
	account = w.account(account)

	resolver, err := w.Drive(ctx, account)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.docs[account]; ok {
		return c, nil
	}

	httpClient, err := w.httpClient(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := docsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	c := docs.New(svc, w.invoker(gapi.ServiceDocs), resolver, account)
	w.docs[account] = c
	return c, nil
}

// Calendar returns the Calendar client for an account.
func (w *Workspace) Calendar(ctx context.Context, account string) (*calendar.Client, error) {
	account = w.account(account)

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.calendar[account]; ok {
		return c, nil
	}

	httpClient, err := w.httpClient(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := calendarapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	c := calendar.New(svc, w.invoker(gapi.ServiceCalendar), account)
	w.calendar[account] = c
	return c, nil
}

// Tasks returns the Tasks client for an account.
func (w *Workspace) Tasks(ctx context.Context, account string) (*tasks.Client, error) {
	account = w.account(account)

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.tasks[account]; ok {
		return c, nil
	}

	httpClient, err := w.httpClient(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := tasksapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	c := tasks.New(svc, w.invoker(gapi.ServiceTasks), account)
	w.tasks[account] = c
	return c, nil
}

// Gmail returns the Gmail client for an account.
func (w *Workspace) Gmail(ctx context.Context, account string) (*gmail.Client, error) {
	account = w.account(account)

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.gmail[account]; ok {
		return c, nil
	}

	httpClient, err := w.httpClient(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	c := gmail.New(svc, w.invoker(gapi.ServiceGmail), account)
	w.gmail[account] = c
	return c, nil
}

// Contacts returns the People client for an account.
func (w *Workspace) Contacts(ctx context.Context, account string) (*contacts.Client, error) {
	account = w.account(account)

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.contacts[account]; ok {
		return c, nil
	}

	httpClient, err := w.httpClient(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := people.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	c := contacts.New(svc, w.invoker(gapi.ServiceContacts), account)
	w.contacts[account] = c
	return c, nil
}
