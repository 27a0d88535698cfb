package gapi

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		dateOnly bool
		wantErr  bool
	}{
		{name: "rfc3339", input: "2023-06-15T10:30:00Z", dateOnly: false},
		{name: "rfc3339 with offset", input: "2023-06-15T10:30:00+02:00", dateOnly: false},
		{name: "date only", input: "2023-06-15", dateOnly: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "next tuesday", wantErr: true},
		{name: "us date", input: "06/15/2023", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dateOnly, err := ParseTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if dateOnly != tt.dateOnly {
				t.Errorf("dateOnly = %v, want %v", dateOnly, tt.dateOnly)
			}
			if got.IsZero() {
				t.Error("Expected non-zero time")
			}
		})
	}
}

func TestFormatTimeRoundTrip(t *testing.T) {
	inputs := []string{"2023-06-15T10:30:00Z", "2023-06-15"}

	for _, input := range inputs {
		parsed, dateOnly, err := ParseTime(input)
		if err != nil {
			t.Fatalf("ParseTime(%q): %v", input, err)
		}
		// Round-trip must preserve the original form
		if got := FormatTime(parsed, dateOnly); got != input {
			t.Errorf("Round-trip of %q produced %q", input, got)
		}
	}
}

func TestParseRFC3339(t *testing.T) {
	want := time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := ParseRFC3339("2023-01-02T15:04:05Z"); !got.Equal(want) {
		t.Errorf("ParseRFC3339 = %v, want %v", got, want)
	}
	if got := ParseRFC3339(""); !got.IsZero() {
		t.Errorf("Expected zero time for empty input, got %v", got)
	}
	if got := ParseRFC3339("bogus"); !got.IsZero() {
		t.Errorf("Expected zero time for invalid input, got %v", got)
	}
}
