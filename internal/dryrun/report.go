package dryrun

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Report describes a simulated mutating action.
type Report struct {
	// ID uniquely identifies this simulation.
	ID string `json:"id"`

	// Service is the Google service the action targets (drive, gmail, ...).
	Service string `json:"service"`

	// Action is the operation that would have been performed
	// (e.g. "files.delete", "events.insert").
	Action string `json:"action"`

	// Resource identifies the target resource: an ID where one exists,
	// otherwise a human-readable name for resources not yet created.
	Resource string `json:"resource,omitempty"`

	// Changes holds the proposed field changes, keyed by field name.
	Changes map[string]any `json:"changes,omitempty"`

	// Reason is the caller-supplied justification for the action.
	Reason string `json:"reason,omitempty"`

	// At is when the simulation was produced.
	At time.Time `json:"at"`
}

// New creates a report for a simulated action.
func New(service, action, resource string) *Report {
	return &Report{
		ID:       uuid.NewString(),
		Service:  service,
		Action:   action,
		Resource: resource,
		At:       time.Now().UTC(),
	}
}

// WithChange records a proposed field change.
func (r *Report) WithChange(field string, value any) *Report {
	if r.Changes == nil {
		r.Changes = make(map[string]any)
	}
	r.Changes[field] = value
	return r
}

// WithReason records the caller-supplied reason for the action.
func (r *Report) WithReason(reason string) *Report {
	r.Reason = reason
	return r
}

// JSON renders the report as indented JSON for CLI output.
func (r *Report) JSON() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
