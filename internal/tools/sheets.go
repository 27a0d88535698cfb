package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/workspace"
)

func parseValueRows(raw string) ([][]any, error) {
	var rows [][]any
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("values must be a JSON array of arrays: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("values must contain at least one row")
	}
	return rows, nil
}

// RegisterSheetsTools registers the Sheets tool family.
func RegisterSheetsTools(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	getValuesTool := mcp.NewTool("sheets_get_values",
		mcp.WithDescription("Read a range of values from a spreadsheet in A1 notation"),
		accountOption(),
		mcp.WithString("spreadsheet",
			mcp.Required(),
			mcp.Description("Spreadsheet ID, URL or exact title"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("Range in A1 notation, e.g. 'Sheet1!A1:C10'"),
		),
	)

	s.AddTool(getValuesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Sheets(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		spreadsheetID, err := client.Resolve(ctx, stringArg(args, "spreadsheet"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve spreadsheet: %v", err)), nil
		}

		values, err := client.GetValues(ctx, spreadsheetID, stringArg(args, "range"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get values: %v", err)), nil
		}
		return jsonResult(values), nil
	})

	if readOnly {
		return nil
	}

	updateValuesTool := mcp.NewTool("sheets_update_values",
		append([]mcp.ToolOption{
			mcp.WithDescription("Overwrite a range of cells in a spreadsheet"),
			accountOption(),
			mcp.WithString("spreadsheet",
				mcp.Required(),
				mcp.Description("Spreadsheet ID, URL or exact title"),
			),
			mcp.WithString("range",
				mcp.Required(),
				mcp.Description("Range in A1 notation"),
			),
			mcp.WithString("values",
				mcp.Required(),
				mcp.Description("Rows of cell values as a JSON array of arrays, e.g. [[\"a\",1],[\"b\",2]]"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(updateValuesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Sheets(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		spreadsheetID, err := client.Resolve(ctx, stringArg(args, "spreadsheet"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve spreadsheet: %v", err)), nil
		}

		rows, err := parseValueRows(stringArg(args, "values"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, report, err := client.UpdateValues(ctx, spreadsheetID, stringArg(args, "range"), rows, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update values: %v", err)), nil
		}
		return mutationResult(report, result), nil
	})

	appendValuesTool := mcp.NewTool("sheets_append_values",
		append([]mcp.ToolOption{
			mcp.WithDescription("Append rows after the last row of data in a range"),
			accountOption(),
			mcp.WithString("spreadsheet",
				mcp.Required(),
				mcp.Description("Spreadsheet ID, URL or exact title"),
			),
			mcp.WithString("range",
				mcp.Required(),
				mcp.Description("Range in A1 notation locating the table"),
			),
			mcp.WithString("values",
				mcp.Required(),
				mcp.Description("Rows of cell values as a JSON array of arrays"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(appendValuesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Sheets(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		spreadsheetID, err := client.Resolve(ctx, stringArg(args, "spreadsheet"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve spreadsheet: %v", err)), nil
		}

		rows, err := parseValueRows(stringArg(args, "values"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, report, err := client.AppendValues(ctx, spreadsheetID, stringArg(args, "range"), rows, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to append values: %v", err)), nil
		}
		return mutationResult(report, result), nil
	})

	return nil
}
