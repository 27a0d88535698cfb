package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

// Client wraps the Google Calendar API service.
type Client struct {
	svc     *calendarapi.Service
	inv     *gapi.Invoker
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// New creates a client from an already-constructed Calendar service.
func New(svc *calendarapi.Service, inv *gapi.Invoker, account string) *Client {
	return &Client{svc: svc, inv: inv, account: account}
}

// NewClientForAccount creates a Calendar client with OAuth2 authentication
// for a specific account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := calendarapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	inv := gapi.NewInvoker(gapi.ServiceCalendar, gapi.NewRateLimiter(gapi.ServiceCalendar), nil, nil)
	return New(svc, inv, account), nil
}

// NewClient creates a Calendar client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListCalendars lists all calendars in the user's calendar list.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	entries, err := gapi.CollectPages(ctx, 0, func(ctx context.Context, pageToken string) ([]*calendarapi.CalendarListEntry, string, error) {
		var list *calendarapi.CalendarList
		err := c.inv.Read(ctx, "calendarList.list", func() error {
			var callErr error
			list, callErr = c.svc.CalendarList.List().
				PageToken(pageToken).
				Context(ctx).
				Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return list.Items, list.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendars := make([]CalendarInfo, 0, len(entries))
	for _, entry := range entries {
		calendars = append(calendars, toCalendarInfo(entry))
	}
	return calendars, nil
}

// GetCalendar retrieves one calendar list entry by ID.
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*CalendarInfo, error) {
	if calendarID == "" {
		return nil, fmt.Errorf("calendarID is required")
	}

	var entry *calendarapi.CalendarListEntry
	err := c.inv.Read(ctx, "calendarList.get", func() error {
		var callErr error
		entry, callErr = c.svc.CalendarList.Get(calendarID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar %s: %w", calendarID, err)
	}

	info := toCalendarInfo(entry)
	return &info, nil
}

// GetPrimaryCalendar retrieves the user's primary calendar.
func (c *Client) GetPrimaryCalendar(ctx context.Context) (*CalendarInfo, error) {
	return c.GetCalendar(ctx, "primary")
}

// ResolveCalendar translates a calendar reference into a calendar ID.
// "primary" and addresses containing "@" pass through unchanged; anything
// else is matched case-insensitively against calendar summaries.
func (c *Client) ResolveCalendar(ctx context.Context, ref string) (string, error) {
	if ref == "" || ref == "primary" {
		return "primary", nil
	}
	if strings.Contains(ref, "@") {
		return ref, nil
	}

	calendars, err := c.ListCalendars(ctx)
	if err != nil {
		return "", err
	}
	for _, cal := range calendars {
		if strings.EqualFold(cal.Summary, ref) {
			return cal.ID, nil
		}
	}
	return "", fmt.Errorf("calendar %q: %w", ref, gapi.ErrNotFound)
}

// ListEvents lists events in a calendar within a time range, expanded to
// single instances and ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, opts ListEventsOptions) ([]EventSummary, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	events, err := gapi.CollectPages(ctx, opts.MaxResults, func(ctx context.Context, pageToken string) ([]*calendarapi.Event, string, error) {
		call := c.svc.Events.List(calendarID).
			SingleEvents(true).
			OrderBy("startTime").
			PageToken(pageToken).
			Context(ctx)

		if !opts.TimeMin.IsZero() {
			call = call.TimeMin(opts.TimeMin.Format(time.RFC3339))
		}
		if !opts.TimeMax.IsZero() {
			call = call.TimeMax(opts.TimeMax.Format(time.RFC3339))
		}
		if opts.Query != "" {
			call = call.Q(opts.Query)
		}

		var result *calendarapi.Events
		err := c.inv.Read(ctx, "events.list", func() error {
			var callErr error
			result, callErr = call.Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return result.Items, result.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events in %s: %w", calendarID, err)
	}

	summaries := make([]EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, toEventSummary(event))
	}
	return summaries, nil
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*EventSummary, error) {
	if calendarID == "" || eventID == "" {
		return nil, fmt.Errorf("calendarID and eventID are required")
	}

	var event *calendarapi.Event
	err := c.inv.Read(ctx, "events.get", func() error {
		var callErr error
		event, callErr = c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}

	summary := toEventSummary(event)
	return &summary, nil
}

// CreateEvent creates a new event. All-day events use date-only start and
// end boundaries; timed events default to UTC when no time zone is given.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput, opts ...gapi.CallOption) (*EventSummary, *dryrun.Report, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	if input.Summary == "" {
		return nil, nil, fmt.Errorf("event summary is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, nil, fmt.Errorf("start and end times are required")
	}
	if !input.End.After(input.Start) {
		return nil, nil, fmt.Errorf("end must be after start")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("calendar", "events.insert", calendarID).
			WithChange("summary", input.Summary).
			WithChange("start", gapi.FormatTime(input.Start, input.AllDay)).
			WithChange("end", gapi.FormatTime(input.End, input.AllDay)).
			WithChange("attendees", len(input.Attendees)).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	event := buildEvent(&calendarapi.Event{}, input)

	var created *calendarapi.Event
	err := c.inv.Mutate(ctx, "events.insert", callOpts, func() error {
		var callErr error
		created, callErr = c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil, nil
}

// UpdateEvent updates an existing event. Only non-zero fields of the
// input overwrite the stored event.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput, opts ...gapi.CallOption) (*EventSummary, *dryrun.Report, error) {
	if calendarID == "" || eventID == "" {
		return nil, nil, fmt.Errorf("calendarID and eventID are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("calendar", "events.update", eventID).
			WithChange("summary", input.Summary).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	var existing *calendarapi.Event
	err := c.inv.Read(ctx, "events.get", func() error {
		var callErr error
		existing, callErr = c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get existing event %s: %w", eventID, err)
	}

	buildEvent(existing, input)

	// A full update converges on retry
	callOpts.RetryWrite = true

	var updated *calendarapi.Event
	err = c.inv.Mutate(ctx, "events.update", callOpts, func() error {
		var callErr error
		updated, callErr = c.svc.Events.Update(calendarID, eventID, existing).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}

	summary := toEventSummary(updated)
	return &summary, nil, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if calendarID == "" || eventID == "" {
		return nil, fmt.Errorf("calendarID and eventID are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("calendar", "events.delete", eventID).
			WithReason(callOpts.Reason)), nil
	}

	// Deleting twice is harmless
	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "events.delete", callOpts, func() error {
		return c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil, nil
}

// QueryFreeBusy reports busy intervals for the given calendars in a time
// range.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	if len(calendarIDs) == 0 {
		return nil, fmt.Errorf("at least one calendar is required")
	}
	if !timeMax.After(timeMin) {
		return nil, fmt.Errorf("timeMax must be after timeMin")
	}

	items := make([]*calendarapi.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendarapi.FreeBusyRequestItem{Id: id}
	}

	var result *calendarapi.FreeBusyResponse
	err := c.inv.Read(ctx, "freebusy.query", func() error {
		var callErr error
		result, callErr = c.svc.Freebusy.Query(&calendarapi.FreeBusyRequest{
			TimeMin: timeMin.Format(time.RFC3339),
			TimeMax: timeMax.Format(time.RFC3339),
			Items:   items,
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	var infos []FreeBusyInfo
	for calID, cal := range result.Calendars {
		info := FreeBusyInfo{Calendar: calID}
		for _, busy := range cal.Busy {
			start := gapi.ParseRFC3339(busy.Start)
			end := gapi.ParseRFC3339(busy.End)
			info.Busy = append(info.Busy, TimeRange{Start: start, End: end})
		}
		for _, calErr := range cal.Errors {
			info.Errors = append(info.Errors, calErr.Reason)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// buildEvent applies non-zero input fields onto an API event.
func buildEvent(event *calendarapi.Event, input EventInput) *calendarapi.Event {
	if input.Summary != "" {
		event.Summary = input.Summary
	}
	if input.Description != "" {
		event.Description = input.Description
	}
	if input.Location != "" {
		event.Location = input.Location
	}

	timeZone := input.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}
	if !input.Start.IsZero() {
		event.Start = toEventDateTime(input.Start, input.AllDay, timeZone)
	}
	if !input.End.IsZero() {
		event.End = toEventDateTime(input.End, input.AllDay, timeZone)
	}

	if len(input.Attendees) > 0 {
		attendees := make([]*calendarapi.EventAttendee, len(input.Attendees))
		for i, email := range input.Attendees {
			attendees[i] = &calendarapi.EventAttendee{Email: email}
		}
		event.Attendees = attendees
	}

	if len(input.Recurrence) > 0 {
		event.Recurrence = input.Recurrence
	}

	return event
}
