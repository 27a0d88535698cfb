package dryrun

import (
	"encoding/json"
	"testing"
)

func TestNewReport(t *testing.T) {
	r := New("drive", "files.delete", "file123")

	if r.ID == "" {
		t.Error("Expected generated ID")
	}
	if r.Service != "drive" {
		t.Errorf("Expected service drive, got %s", r.Service)
	}
	if r.Action != "files.delete" {
		t.Errorf("Expected action files.delete, got %s", r.Action)
	}
	if r.Resource != "file123" {
		t.Errorf("Expected resource file123, got %s", r.Resource)
	}
	if r.At.IsZero() {
		t.Error("Expected timestamp")
	}
}

func TestReportIDsAreUnique(t *testing.T) {
	a := New("gmail", "messages.send", "")
	b := New("gmail", "messages.send", "")
	if a.ID == b.ID {
		t.Error("Expected unique report IDs")
	}
}

func TestWithChangeAndReason(t *testing.T) {
	r := New("calendar", "events.update", "evt1").
		WithChange("summary", "New title").
		WithChange("location", "Room 2").
		WithReason("weekly cleanup")

	if len(r.Changes) != 2 {
		t.Errorf("Expected 2 changes, got %d", len(r.Changes))
	}
	if r.Changes["summary"] != "New title" {
		t.Errorf("Unexpected change value: %v", r.Changes["summary"])
	}
	if r.Reason != "weekly cleanup" {
		t.Errorf("Unexpected reason: %s", r.Reason)
	}
}

func TestReportJSON(t *testing.T) {
	r := New("sheets", "values.update", "sheet1").WithChange("range", "A1:B2")

	var decoded map[string]any
	if err := json.Unmarshal([]byte(r.JSON()), &decoded); err != nil {
		t.Fatalf("JSON output is not valid JSON: %v", err)
	}
	if decoded["service"] != "sheets" {
		t.Errorf("Expected service sheets in JSON, got %v", decoded["service"])
	}
	if _, ok := decoded["changes"]; !ok {
		t.Error("Expected changes in JSON output")
	}
}

func TestReportJSONOmitsEmptyFields(t *testing.T) {
	r := New("tasks", "tasklists.insert", "")

	var decoded map[string]any
	if err := json.Unmarshal([]byte(r.JSON()), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := decoded["resource"]; ok {
		t.Error("Expected empty resource to be omitted")
	}
	if _, ok := decoded["reason"]; ok {
		t.Error("Expected empty reason to be omitted")
	}
}
