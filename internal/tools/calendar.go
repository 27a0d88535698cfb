package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/calendar"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/workspace"
)

// RegisterCalendarTools registers the Calendar tool family.
func RegisterCalendarTools(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	listCalendarsTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List the calendars visible to the account"),
		accountOption(),
	)

	s.AddTool(listCalendarsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Calendar(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		calendars, err := client.ListCalendars(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
		}
		return jsonResult(calendars), nil
	})

	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List events on a calendar within a time range, recurring events expanded"),
		accountOption(),
		mcp.WithString("calendar",
			mcp.Description("Calendar ID or name (default: primary)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Lower bound, RFC3339 or YYYY-MM-DD (default: now)"),
		),
		mcp.WithString("timeMax",
			mcp.Description("Upper bound, RFC3339 or YYYY-MM-DD (default: 7 days from timeMin)"),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search over event fields"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 50)"),
		),
	)

	s.AddTool(listEventsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Calendar(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		calendarID, err := client.ResolveCalendar(ctx, stringArg(args, "calendar"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve calendar: %v", err)), nil
		}

		opts := calendar.ListEventsOptions{
			Query:      stringArg(args, "query"),
			MaxResults: intArg(args, "maxResults", 50),
		}
		if raw := stringArg(args, "timeMin"); raw != "" {
			t, _, err := gapi.ParseTime(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin: %v", err)), nil
			}
			opts.TimeMin = t
		} else {
			opts.TimeMin = time.Now()
		}
		if raw := stringArg(args, "timeMax"); raw != "" {
			t, _, err := gapi.ParseTime(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax: %v", err)), nil
			}
			opts.TimeMax = t
		} else {
			opts.TimeMax = opts.TimeMin.AddDate(0, 0, 7)
		}

		events, err := client.ListEvents(ctx, calendarID, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
		}
		return jsonResult(events), nil
	})

	freeBusyTool := mcp.NewTool("calendar_free_busy",
		mcp.WithDescription("Query busy intervals for one or more calendars in a time range"),
		accountOption(),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Range start, RFC3339 or YYYY-MM-DD"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("Range end, RFC3339 or YYYY-MM-DD"),
		),
		mcp.WithString("calendars",
			mcp.Description("Comma-separated calendar IDs (default: primary)"),
		),
	)

	s.AddTool(freeBusyTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Calendar(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		timeMin, _, err := gapi.ParseTime(stringArg(args, "timeMin"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin: %v", err)), nil
		}
		timeMax, _, err := gapi.ParseTime(stringArg(args, "timeMax"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax: %v", err)), nil
		}

		calendarIDs := splitListArg(args, "calendars")
		if len(calendarIDs) == 0 {
			calendarIDs = []string{"primary"}
		}

		busy, err := client.QueryFreeBusy(ctx, timeMin, timeMax, calendarIDs)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
		}
		return jsonResult(busy), nil
	})

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("calendar_create_event",
		append([]mcp.ToolOption{
			mcp.WithDescription("Create an event on a calendar"),
			accountOption(),
			mcp.WithString("calendar",
				mcp.Description("Calendar ID or name (default: primary)"),
			),
			mcp.WithString("summary",
				mcp.Required(),
				mcp.Description("Event title"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Start, RFC3339 or YYYY-MM-DD for an all-day event"),
			),
			mcp.WithString("end",
				mcp.Required(),
				mcp.Description("End, same format as start"),
			),
			mcp.WithString("description",
				mcp.Description("Event description"),
			),
			mcp.WithString("location",
				mcp.Description("Event location"),
			),
			mcp.WithString("timeZone",
				mcp.Description("IANA time zone for timed events (default: UTC)"),
			),
			mcp.WithString("attendees",
				mcp.Description("Comma-separated attendee email addresses"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(createEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Calendar(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		calendarID, err := client.ResolveCalendar(ctx, stringArg(args, "calendar"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve calendar: %v", err)), nil
		}

		start, startDateOnly, err := gapi.ParseTime(stringArg(args, "start"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid start: %v", err)), nil
		}
		end, _, err := gapi.ParseTime(stringArg(args, "end"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid end: %v", err)), nil
		}

		input := calendar.EventInput{
			Summary:     stringArg(args, "summary"),
			Description: stringArg(args, "description"),
			Location:    stringArg(args, "location"),
			Start:       start,
			End:         end,
			AllDay:      startDateOnly,
			TimeZone:    stringArg(args, "timeZone"),
			Attendees:   splitListArg(args, "attendees"),
		}

		event, report, err := client.CreateEvent(ctx, calendarID, input, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
		}
		return mutationResult(report, event), nil
	})

	deleteEventTool := mcp.NewTool("calendar_delete_event",
		append([]mcp.ToolOption{
			mcp.WithDescription("Delete an event from a calendar"),
			accountOption(),
			mcp.WithString("calendar",
				mcp.Description("Calendar ID or name (default: primary)"),
			),
			mcp.WithString("eventId",
				mcp.Required(),
				mcp.Description("Event ID"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(deleteEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Calendar(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		calendarID, err := client.ResolveCalendar(ctx, stringArg(args, "calendar"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve calendar: %v", err)), nil
		}

		report, err := client.DeleteEvent(ctx, calendarID, stringArg(args, "eventId"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"status": "deleted", "eventId": stringArg(args, "eventId")}), nil
	})

	return nil
}
