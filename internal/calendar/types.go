package calendar

import (
	"time"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/bpopineau/gspace/internal/gapi"
)

// EventInput holds the fields for creating or updating an event. Zero
// values mean "leave unset" (create) or "keep as is" (update).
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	TimeZone    string
	Attendees   []string
	Recurrence  []string // RRULE, EXRULE, RDATE, EXDATE lines
}

// EventSummary is a flattened calendar event for listing and display.
type EventSummary struct {
	ID          string         `json:"id"`
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	AllDay      bool           `json:"allDay,omitempty"`
	Creator     string         `json:"creator,omitempty"`
	Organizer   string         `json:"organizer,omitempty"`
	Status      string         `json:"status,omitempty"`
	Attendees   []AttendeeInfo `json:"attendees,omitempty"`
	MeetLink    string         `json:"meetLink,omitempty"`
	Recurring   bool           `json:"recurring,omitempty"`
}

// AttendeeInfo describes one attendee of an event.
type AttendeeInfo struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"` // needsAction, declined, tentative, accepted
	Optional       bool   `json:"optional,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
}

// CalendarInfo describes a calendar in the user's calendar list.
type CalendarInfo struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timeZone,omitempty"`
	Primary     bool   `json:"primary,omitempty"`
	AccessRole  string `json:"accessRole,omitempty"` // owner, writer, reader, freeBusyReader
}

// FreeBusyInfo reports busy intervals for one calendar.
type FreeBusyInfo struct {
	Calendar string      `json:"calendar"`
	Busy     []TimeRange `json:"busy,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// TimeRange is a half-open [Start, End) interval.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ListEventsOptions controls event listing.
type ListEventsOptions struct {
	TimeMin    time.Time
	TimeMax    time.Time
	Query      string
	MaxResults int
}

func toEventSummary(event *calendarapi.Event) EventSummary {
	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
		Recurring:   len(event.Recurrence) > 0 || event.RecurringEventId != "",
	}

	if event.Start != nil {
		t, dateOnly, err := parseEventTime(event.Start)
		if err == nil {
			summary.Start = t
			summary.AllDay = dateOnly
		}
	}
	if event.End != nil {
		if t, _, err := parseEventTime(event.End); err == nil {
			summary.End = t
		}
	}

	if event.Creator != nil {
		summary.Creator = event.Creator.Email
	}
	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Optional:       att.Optional,
			Organizer:      att.Organizer,
		})
	}

	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				summary.MeetLink = ep.Uri
				break
			}
		}
	}

	return summary
}

// parseEventTime decodes an event boundary, preferring the timed form
// over the all-day date form.
func parseEventTime(edt *calendarapi.EventDateTime) (time.Time, bool, error) {
	if edt.DateTime != "" {
		return gapi.ParseTime(edt.DateTime)
	}
	return gapi.ParseTime(edt.Date)
}

// toEventDateTime encodes an event boundary, using date-only form for
// all-day events.
func toEventDateTime(t time.Time, allDay bool, timeZone string) *calendarapi.EventDateTime {
	if allDay {
		return &calendarapi.EventDateTime{Date: t.Format(gapi.DateLayout)}
	}
	return &calendarapi.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: timeZone,
	}
}

func toCalendarInfo(entry *calendarapi.CalendarListEntry) CalendarInfo {
	return CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
		AccessRole:  entry.AccessRole,
	}
}
