package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/workspace"
)

// RegisterDocsTools registers the Docs tool family.
func RegisterDocsTools(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	getDocumentTool := mcp.NewTool("docs_get_document",
		mcp.WithDescription("Fetch a document and return its metadata and plain-text content"),
		accountOption(),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Document ID, URL or exact title"),
		),
	)

	s.AddTool(getDocumentTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Docs(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		documentID, err := client.Resolve(ctx, stringArg(args, "document"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve document: %v", err)), nil
		}

		doc, err := client.GetDocument(ctx, documentID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get document: %v", err)), nil
		}
		return jsonResult(doc), nil
	})

	if readOnly {
		return nil
	}

	createDocumentTool := mcp.NewTool("docs_create_document",
		append([]mcp.ToolOption{
			mcp.WithDescription("Create a new blank document"),
			accountOption(),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title for the new document"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(createDocumentTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Docs(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		info, report, err := client.CreateDocument(ctx, stringArg(args, "title"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create document: %v", err)), nil
		}
		return mutationResult(report, info), nil
	})

	appendTextTool := mcp.NewTool("docs_append_text",
		append([]mcp.ToolOption{
			mcp.WithDescription("Append text to the end of a document"),
			accountOption(),
			mcp.WithString("document",
				mcp.Required(),
				mcp.Description("Document ID, URL or exact title"),
			),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("Text to append"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(appendTextTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Docs(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		documentID, err := client.Resolve(ctx, stringArg(args, "document"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve document: %v", err)), nil
		}

		report, err := client.AppendText(ctx, documentID, stringArg(args, "text"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to append text: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"status": "appended", "documentId": documentID}), nil
	})

	replaceTextTool := mcp.NewTool("docs_replace_text",
		append([]mcp.ToolOption{
			mcp.WithDescription("Replace every case-sensitive occurrence of a string in a document"),
			accountOption(),
			mcp.WithString("document",
				mcp.Required(),
				mcp.Description("Document ID, URL or exact title"),
			),
			mcp.WithString("find",
				mcp.Required(),
				mcp.Description("Text to search for"),
			),
			mcp.WithString("replace",
				mcp.Required(),
				mcp.Description("Replacement text"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(replaceTextTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Docs(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		documentID, err := client.Resolve(ctx, stringArg(args, "document"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve document: %v", err)), nil
		}

		result, report, err := client.ReplaceText(ctx, documentID, stringArg(args, "find"), stringArg(args, "replace"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to replace text: %v", err)), nil
		}
		return mutationResult(report, result), nil
	})

	return nil
}
