package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bpopineau/gspace/internal/calendar"
	"github.com/bpopineau/gspace/internal/gapi"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Work with Google Calendar events",
	}

	cmd.AddCommand(newCalendarListCmd())
	cmd.AddCommand(newCalendarEventsCmd())
	cmd.AddCommand(newCalendarCreateCmd())
	cmd.AddCommand(newCalendarDeleteCmd())
	return cmd
}

func newCalendarListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the account's calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Calendar(ctx, cfg.Account)
			if err != nil {
				return err
			}

			calendars, err := client.ListCalendars(ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(calendars))
			for _, c := range calendars {
				primary := ""
				if c.Primary {
					primary = "primary"
				}
				rows = append(rows, []string{c.ID, c.Summary, primary})
			}
			return printTable([]string{"ID", "SUMMARY", ""}, rows, calendars)
		},
	}
}

func newCalendarEventsCmd() *cobra.Command {
	var (
		calendarRef string
		from        string
		to          string
		query       string
		maxResults  int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events in a time range, recurring events expanded",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Calendar(ctx, cfg.Account)
			if err != nil {
				return err
			}

			calendarID, err := client.ResolveCalendar(ctx, calendarRef)
			if err != nil {
				return err
			}

			opts := calendar.ListEventsOptions{
				Query:      query,
				MaxResults: maxResults,
				TimeMin:    time.Now(),
			}
			if from != "" {
				if opts.TimeMin, _, err = gapi.ParseTime(from); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			if to != "" {
				if opts.TimeMax, _, err = gapi.ParseTime(to); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
			} else {
				opts.TimeMax = opts.TimeMin.AddDate(0, 0, 7)
			}

			events, err := client.ListEvents(ctx, calendarID, opts)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(events))
			for _, e := range events {
				start := e.Start.Format("2006-01-02 15:04")
				if e.AllDay {
					start = e.Start.Format("2006-01-02") + " (all day)"
				}
				rows = append(rows, []string{e.ID, start, e.Summary})
			}
			return printTable([]string{"ID", "START", "SUMMARY"}, rows, events)
		},
	}

	cmd.Flags().StringVar(&calendarRef, "calendar", "", "Calendar ID or name (default: primary)")
	cmd.Flags().StringVar(&from, "from", "", "Range start, RFC3339 or YYYY-MM-DD (default: now)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (default: 7 days after --from)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text search over event fields")
	cmd.Flags().IntVar(&maxResults, "max-results", 50, "Maximum number of events to list")
	return cmd
}

func newCalendarCreateCmd() *cobra.Command {
	var (
		calendarRef string
		start       string
		end         string
		description string
		location    string
		timeZone    string
		attendees   string
	)

	cmd := &cobra.Command{
		Use:   "create <summary>",
		Short: "Create an event; date-only start and end make it all-day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Calendar(ctx, cfg.Account)
			if err != nil {
				return err
			}

			calendarID, err := client.ResolveCalendar(ctx, calendarRef)
			if err != nil {
				return err
			}

			startTime, dateOnly, err := gapi.ParseTime(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endTime, _, err := gapi.ParseTime(end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			input := calendar.EventInput{
				Summary:     args[0],
				Description: description,
				Location:    location,
				Start:       startTime,
				End:         endTime,
				AllDay:      dateOnly,
				TimeZone:    timeZone,
			}
			if attendees != "" {
				for _, a := range strings.Split(attendees, ",") {
					if a = strings.TrimSpace(a); a != "" {
						input.Attendees = append(input.Attendees, a)
					}
				}
			}

			return onceGuard(ctx, cfg, "calendar/create", func() error {
				event, report, err := client.CreateEvent(ctx, calendarID, input, callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, event)
			})
		},
	}

	cmd.Flags().StringVar(&calendarRef, "calendar", "", "Calendar ID or name (default: primary)")
	cmd.Flags().StringVar(&start, "start", "", "Start, RFC3339 or YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "End, same format as --start")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().StringVar(&location, "location", "", "Event location")
	cmd.Flags().StringVar(&timeZone, "timezone", "", "IANA time zone for timed events (default: UTC)")
	cmd.Flags().StringVar(&attendees, "attendees", "", "Comma-separated attendee email addresses")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	addMutationFlags(cmd)
	return cmd
}

func newCalendarDeleteCmd() *cobra.Command {
	var calendarRef string

	cmd := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Calendar(ctx, cfg.Account)
			if err != nil {
				return err
			}

			calendarID, err := client.ResolveCalendar(ctx, calendarRef)
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "calendar/delete", func() error {
				report, err := client.DeleteEvent(ctx, calendarID, args[0], callOpts()...)
				if err != nil {
					return err
				}
				if report != nil {
					return printJSON(report)
				}
				fmt.Printf("Deleted event %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&calendarRef, "calendar", "", "Calendar ID or name (default: primary)")
	addMutationFlags(cmd)
	return cmd
}
