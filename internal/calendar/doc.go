// Package calendar wraps the Google Calendar API with calendar listing,
// event CRUD, free/busy queries and scheduling helpers.
//
// Events carry either timed (RFC3339) or all-day (date-only) boundaries;
// EventInput.AllDay selects which representation is sent to the API.
package calendar
