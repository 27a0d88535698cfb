package gapi

import (
	"fmt"
	"time"
)

// DateLayout is the date-only form used by all-day calendar events and task
// due dates.
const DateLayout = "2006-01-02"

// ParseTime parses an RFC3339 timestamp or a date-only value. The returned
// bool reports whether the input was date-only.
func ParseTime(value string) (time.Time, bool, error) {
	if value == "" {
		return time.Time{}, false, fmt.Errorf("empty time value")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid time %q: want RFC3339 or %s", value, DateLayout)
}

// FormatTime renders t as RFC3339, or as a date-only value when dateOnly is
// set, preserving the form of the original input across round-trips.
func FormatTime(t time.Time, dateOnly bool) string {
	if dateOnly {
		return t.Format(DateLayout)
	}
	return t.Format(time.RFC3339)
}

// ParseRFC3339 parses a strictly RFC3339 timestamp, returning the zero time
// for empty input. Used when converting API responses whose fields may be
// unset.
func ParseRFC3339(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
