package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/workspace"
)

// ToolMetrics receives timing for completed tool invocations. It is
// implemented by the instrumentation package.
type ToolMetrics interface {
	RecordToolInvocation(ctx context.Context, tool, status, account string, duration time.Duration)
}

// MetricsMiddleware wraps tool handlers so every invocation is counted
// and timed. Install it on the server with WithToolHandlerMiddleware.
func MetricsMiddleware(metrics ToolMetrics) mcpserver.ToolHandlerMiddleware {
	return func(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, request)

			status := "success"
			if err != nil || (result != nil && result.IsError) {
				status = "error"
			}
			account := stringArg(requestArgs(request), "account")
			metrics.RecordToolInvocation(ctx, request.Params.Name, status, account, time.Since(start))
			return result, err
		}
	}
}

// RegisterAll registers every tool family on the server. With readOnly
// set, mutating tools are left out entirely.
func RegisterAll(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	registrations := []struct {
		name string
		fn   func(*mcpserver.MCPServer, *workspace.Workspace, bool) error
	}{
		{"drive", RegisterDriveTools},
		{"sheets", RegisterSheetsTools},
		{"docs", RegisterDocsTools},
		{"calendar", RegisterCalendarTools},
		{"tasks", RegisterTasksTools},
		{"gmail", RegisterGmailTools},
		{"contacts", RegisterContactsTools},
	}

	for _, r := range registrations {
		if err := r.fn(s, ws, readOnly); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", r.name, err)
		}
	}
	return nil
}

// requestArgs extracts the argument map from a tool request.
func requestArgs(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		args = map[string]any{}
	}
	return args
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// splitListArg reads a comma-separated string argument into a slice,
// dropping empty entries.
func splitListArg(args map[string]any, key string) []string {
	raw := stringArg(args, key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// callOptions maps the dryRun and reason arguments onto call options.
func callOptions(args map[string]any) []gapi.CallOption {
	var opts []gapi.CallOption
	if boolArg(args, "dryRun") {
		opts = append(opts, gapi.DryRun(stringArg(args, "reason")))
	}
	return opts
}

// jsonResult marshals a value as an indented text result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// mutationResult renders either the dry-run report or the real outcome.
func mutationResult(report *dryrun.Report, outcome any) *mcp.CallToolResult {
	if report != nil {
		return jsonResult(report)
	}
	return jsonResult(outcome)
}

// accountOption is the account argument shared by every tool.
func accountOption() mcp.ToolOption {
	return mcp.WithString("account",
		mcp.Description("Account name (default: the configured default account)"),
	)
}

// dryRunOptions are the arguments shared by every mutating tool.
func dryRunOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("dryRun",
			mcp.Description("Report what would change without performing the mutation"),
		),
		mcp.WithString("reason",
			mcp.Description("Free-form note recorded in the dry-run report"),
		),
	}
}
