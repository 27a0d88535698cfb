package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "regular email", email: "user@example.com"},
		{name: "another email", email: "admin@company.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)

			if !strings.HasPrefix(got, "user:") {
				t.Errorf("Expected prefix 'user:', got %s", got)
			}
			if strings.Contains(got, tt.email) {
				t.Errorf("Anonymized value %s leaks the email", got)
			}

			// Same input must hash to the same value for correlation
			if again := AnonymizeEmail(tt.email); again != got {
				t.Errorf("Expected stable hash, got %s and %s", got, again)
			}
		})
	}
}

func TestAnonymizeEmailEmpty(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("Expected empty string for empty email, got %s", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("Expected <empty>, got %s", got)
	}

	got := SanitizeToken("ya29.secret-token-value")
	if strings.Contains(got, "secret") {
		t.Errorf("Sanitized token %s leaks content", got)
	}
	if got != "[token:23 chars]" {
		t.Errorf("Expected length indicator, got %s", got)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"user@example.com", "example.com"},
		{"not-an-email", ""},
		{"", ""},
		{"a@b@c", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.email); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestErrNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("test message", Err(nil))

	if strings.Contains(buf.String(), "error") {
		t.Errorf("Expected no error attribute for nil error, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSetupJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, Options{Level: "debug", Format: "json"})

	logger.Debug("hello", Service("drive"))

	out := buf.String()
	if !strings.Contains(out, `"service":"drive"`) {
		t.Errorf("Expected JSON output with service attribute, got %s", out)
	}
}
