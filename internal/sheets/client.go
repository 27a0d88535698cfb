package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

// Resolver translates a human-supplied reference (title, URL or ID) into a
// canonical file ID, constrained to a MIME type. Implemented by the Drive
// client.
type Resolver interface {
	ResolveIDWithType(ctx context.Context, ref, mimeType string) (string, error)
}

// Client wraps the Google Sheets API service.
type Client struct {
	svc      *sheets.Service
	inv      *gapi.Invoker
	resolver Resolver
	account  string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// New creates a client from an already-constructed Sheets service. The
// resolver may be nil, in which case only raw IDs and URLs resolve.
func New(svc *sheets.Service, inv *gapi.Invoker, resolver Resolver, account string) *Client {
	return &Client{svc: svc, inv: inv, resolver: resolver, account: account}
}

// NewClientForAccount creates a Sheets client with OAuth2 authentication for
// a specific account. Title resolution is unavailable on clients built this
// way; use the workspace factory to get a Drive-backed resolver.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	inv := gapi.NewInvoker(gapi.ServiceSheets, gapi.NewRateLimiter(gapi.ServiceSheets), nil, nil)
	return New(svc, inv, nil, account), nil
}

// NewClient creates a Sheets client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// Resolve translates a spreadsheet reference (title, URL or ID) into a
// canonical spreadsheet ID.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	if c.resolver == nil {
		return "", fmt.Errorf("no resolver configured: pass a spreadsheet ID or URL")
	}
	return c.resolver.ResolveIDWithType(ctx, ref, SpreadsheetMimeType)
}

// CreateSpreadsheet creates a new spreadsheet with the given title.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string, opts ...gapi.CallOption) (*SpreadsheetInfo, *dryrun.Report, error) {
	if title == "" {
		return nil, nil, fmt.Errorf("title is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("sheets", "spreadsheets.create", title).
			WithChange("title", title).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	var created *sheets.Spreadsheet
	err := c.inv.Mutate(ctx, "spreadsheets.create", callOpts, func() error {
		var callErr error
		created, callErr = c.svc.Spreadsheets.Create(&sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{Title: title},
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	return toSpreadsheetInfo(created), nil, nil
}

// GetSpreadsheet retrieves spreadsheet metadata, including its sheets.
func (c *Client) GetSpreadsheet(ctx context.Context, spreadsheetID string) (*SpreadsheetInfo, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}

	var result *sheets.Spreadsheet
	err := c.inv.Read(ctx, "spreadsheets.get", func() error {
		var callErr error
		result, callErr = c.svc.Spreadsheets.Get(spreadsheetID).
			Context(ctx).
			Fields("spreadsheetId, spreadsheetUrl, properties(title, locale), sheets(properties)").
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}
	return toSpreadsheetInfo(result), nil
}

// GetValues reads a range of values in A1 notation.
func (c *Client) GetValues(ctx context.Context, spreadsheetID, readRange string) (*ValueRange, error) {
	if spreadsheetID == "" || readRange == "" {
		return nil, fmt.Errorf("spreadsheetID and range are required")
	}

	var result *sheets.ValueRange
	err := c.inv.Read(ctx, "values.get", func() error {
		var callErr error
		result, callErr = c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get values %s!%s: %w", spreadsheetID, readRange, err)
	}

	return &ValueRange{Range: result.Range, Values: result.Values}, nil
}

// UpdateValues writes values to a range, overwriting existing cells. Values
// are interpreted as if typed by the user (formulas parse, numbers coerce).
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]any, opts ...gapi.CallOption) (*UpdateResult, *dryrun.Report, error) {
	if spreadsheetID == "" || writeRange == "" {
		return nil, nil, fmt.Errorf("spreadsheetID and range are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("sheets", "values.update", spreadsheetID).
			WithChange("range", writeRange).
			WithChange("rows", len(values)).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	// Overwriting a fixed range is idempotent
	callOpts.RetryWrite = true

	var result *sheets.UpdateValuesResponse
	err := c.inv.Mutate(ctx, "values.update", callOpts, func() error {
		var callErr error
		result, callErr = c.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{
			Values: values,
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update values %s!%s: %w", spreadsheetID, writeRange, err)
	}

	return &UpdateResult{
		UpdatedRange:   result.UpdatedRange,
		UpdatedRows:    result.UpdatedRows,
		UpdatedColumns: result.UpdatedColumns,
		UpdatedCells:   result.UpdatedCells,
	}, nil, nil
}

// AppendValues appends rows after the last row of data in the range's
// table. Appends are not idempotent and are never retried.
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, appendRange string, values [][]any, opts ...gapi.CallOption) (*UpdateResult, *dryrun.Report, error) {
	if spreadsheetID == "" || appendRange == "" {
		return nil, nil, fmt.Errorf("spreadsheetID and range are required")
	}
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("values are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("sheets", "values.append", spreadsheetID).
			WithChange("range", appendRange).
			WithChange("rows", len(values)).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	// A retried append duplicates rows
	callOpts.RetryWrite = false

	var result *sheets.AppendValuesResponse
	err := c.inv.Mutate(ctx, "values.append", callOpts, func() error {
		var callErr error
		result, callErr = c.svc.Spreadsheets.Values.Append(spreadsheetID, appendRange, &sheets.ValueRange{
			Values: values,
		}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to append values %s!%s: %w", spreadsheetID, appendRange, err)
	}

	out := &UpdateResult{}
	if result.Updates != nil {
		out.UpdatedRange = result.Updates.UpdatedRange
		out.UpdatedRows = result.Updates.UpdatedRows
		out.UpdatedColumns = result.Updates.UpdatedColumns
		out.UpdatedCells = result.Updates.UpdatedCells
	}
	return out, nil, nil
}

// ClearValues clears a range of values, leaving formatting intact.
func (c *Client) ClearValues(ctx context.Context, spreadsheetID, clearRange string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if spreadsheetID == "" || clearRange == "" {
		return nil, fmt.Errorf("spreadsheetID and range are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("sheets", "values.clear", spreadsheetID).
			WithChange("range", clearRange).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "values.clear", callOpts, func() error {
		_, callErr := c.svc.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clear values %s!%s: %w", spreadsheetID, clearRange, err)
	}
	return nil, nil
}

// BatchUpdateValues writes multiple ranges in a single call.
func (c *Client) BatchUpdateValues(ctx context.Context, spreadsheetID string, ranges []ValueRange, opts ...gapi.CallOption) (*UpdateResult, *dryrun.Report, error) {
	if spreadsheetID == "" {
		return nil, nil, fmt.Errorf("spreadsheetID is required")
	}
	if len(ranges) == 0 {
		return nil, nil, fmt.Errorf("at least one range is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		names := make([]string, len(ranges))
		for i, r := range ranges {
			names[i] = r.Range
		}
		report := dryrun.New("sheets", "values.batchUpdate", spreadsheetID).
			WithChange("ranges", names).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	callOpts.RetryWrite = true

	data := make([]*sheets.ValueRange, len(ranges))
	for i, r := range ranges {
		data[i] = &sheets.ValueRange{Range: r.Range, Values: r.Values}
	}

	var result *sheets.BatchUpdateValuesResponse
	err := c.inv.Mutate(ctx, "values.batchUpdate", callOpts, func() error {
		var callErr error
		result, callErr = c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             data,
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to batch update %s: %w", spreadsheetID, err)
	}

	return &UpdateResult{
		UpdatedRows:  result.TotalUpdatedRows,
		UpdatedCells: result.TotalUpdatedCells,
	}, nil, nil
}

// AddSheet adds a new sheet (tab) to an existing spreadsheet.
func (c *Client) AddSheet(ctx context.Context, spreadsheetID, title string, opts ...gapi.CallOption) (*SheetInfo, *dryrun.Report, error) {
	if spreadsheetID == "" || title == "" {
		return nil, nil, fmt.Errorf("spreadsheetID and title are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("sheets", "spreadsheets.batchUpdate", spreadsheetID).
			WithChange("addSheet", title).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	var result *sheets.BatchUpdateSpreadsheetResponse
	err := c.inv.Mutate(ctx, "spreadsheets.batchUpdate", callOpts, func() error {
		var callErr error
		result, callErr = c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				}},
			},
		}).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add sheet %q to %s: %w", title, spreadsheetID, err)
	}

	for _, reply := range result.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			p := reply.AddSheet.Properties
			return &SheetInfo{ID: p.SheetId, Title: p.Title, Index: p.Index}, nil, nil
		}
	}
	return &SheetInfo{Title: title}, nil, nil
}
