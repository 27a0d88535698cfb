package calendar

import (
	"context"
	"testing"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"
)

func TestToEventSummaryTimed(t *testing.T) {
	event := &calendarapi.Event{
		Id:      "evt1",
		Summary: "Standup",
		Status:  "confirmed",
		Start:   &calendarapi.EventDateTime{DateTime: "2024-03-15T10:00:00Z"},
		End:     &calendarapi.EventDateTime{DateTime: "2024-03-15T10:30:00Z"},
		Creator: &calendarapi.EventCreator{Email: "alice@example.com"},
		Attendees: []*calendarapi.EventAttendee{
			{Email: "bob@example.com", ResponseStatus: "accepted"},
		},
		ConferenceData: &calendarapi.ConferenceData{
			EntryPoints: []*calendarapi.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+1234"},
				{EntryPointType: "video", Uri: "https://meet.google.com/abc-defg-hij"},
			},
		},
	}

	summary := toEventSummary(event)

	if summary.ID != "evt1" || summary.Summary != "Standup" {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if summary.AllDay {
		t.Error("Timed event must not be all-day")
	}
	want := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	if !summary.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", summary.Start, want)
	}
	if summary.Creator != "alice@example.com" {
		t.Errorf("Creator = %s", summary.Creator)
	}
	if len(summary.Attendees) != 1 || summary.Attendees[0].ResponseStatus != "accepted" {
		t.Errorf("Unexpected attendees: %+v", summary.Attendees)
	}
	if summary.MeetLink != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("MeetLink = %s", summary.MeetLink)
	}
}

func TestToEventSummaryAllDay(t *testing.T) {
	event := &calendarapi.Event{
		Id:    "evt2",
		Start: &calendarapi.EventDateTime{Date: "2024-03-15"},
		End:   &calendarapi.EventDateTime{Date: "2024-03-16"},
	}

	summary := toEventSummary(event)

	if !summary.AllDay {
		t.Error("Date-only event must be all-day")
	}
	if summary.Start.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("Start = %v", summary.Start)
	}
}

func TestToEventSummaryRecurring(t *testing.T) {
	byRule := toEventSummary(&calendarapi.Event{Recurrence: []string{"RRULE:FREQ=WEEKLY"}})
	if !byRule.Recurring {
		t.Error("Event with RRULE must be recurring")
	}

	byParent := toEventSummary(&calendarapi.Event{RecurringEventId: "parent1"})
	if !byParent.Recurring {
		t.Error("Expanded instance must be recurring")
	}
}

func TestToEventDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	allDay := toEventDateTime(ts, true, "Europe/Berlin")
	if allDay.Date != "2024-03-15" || allDay.DateTime != "" {
		t.Errorf("All-day boundary = %+v", allDay)
	}

	timed := toEventDateTime(ts, false, "Europe/Berlin")
	if timed.DateTime != "2024-03-15T14:30:00Z" || timed.Date != "" {
		t.Errorf("Timed boundary = %+v", timed)
	}
	if timed.TimeZone != "Europe/Berlin" {
		t.Errorf("TimeZone = %s", timed.TimeZone)
	}
}

func TestBuildEventKeepsUnsetFields(t *testing.T) {
	existing := &calendarapi.Event{
		Summary:     "Old title",
		Description: "old description",
		Location:    "Room 1",
	}

	buildEvent(existing, EventInput{Summary: "New title"})

	if existing.Summary != "New title" {
		t.Errorf("Summary = %s", existing.Summary)
	}
	if existing.Description != "old description" || existing.Location != "Room 1" {
		t.Error("Zero-value input fields must not overwrite existing values")
	}
	if existing.Start != nil {
		t.Error("Zero start time must not set a boundary")
	}
}

func TestBuildEventDefaultsTimeZone(t *testing.T) {
	event := buildEvent(&calendarapi.Event{}, EventInput{
		Start: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	})

	if event.Start.TimeZone != "UTC" {
		t.Errorf("TimeZone = %s, want UTC", event.Start.TimeZone)
	}
}

func TestResolveCalendarPassthrough(t *testing.T) {
	c := &Client{}

	tests := []struct {
		ref  string
		want string
	}{
		{"", "primary"},
		{"primary", "primary"},
		{"team@group.calendar.google.com", "team@group.calendar.google.com"},
		{"alice@example.com", "alice@example.com"},
	}

	for _, tt := range tests {
		got, err := c.ResolveCalendar(context.Background(), tt.ref)
		if err != nil {
			t.Fatalf("ResolveCalendar(%q): %v", tt.ref, err)
		}
		if got != tt.want {
			t.Errorf("ResolveCalendar(%q) = %s, want %s", tt.ref, got, tt.want)
		}
	}
}

func TestCreateEventValidation(t *testing.T) {
	c := &Client{}
	ctx := context.Background()
	start := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	if _, _, err := c.CreateEvent(ctx, "primary", EventInput{Start: start, End: start.Add(time.Hour)}); err == nil {
		t.Error("Expected error for missing summary")
	}
	if _, _, err := c.CreateEvent(ctx, "primary", EventInput{Summary: "x", Start: start}); err == nil {
		t.Error("Expected error for missing end")
	}
	if _, _, err := c.CreateEvent(ctx, "primary", EventInput{Summary: "x", Start: start, End: start}); err == nil {
		t.Error("Expected error when end is not after start")
	}
}
