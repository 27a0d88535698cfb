package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/contacts"
	"github.com/bpopineau/gspace/internal/workspace"
)

// RegisterContactsTools registers the Contacts tool family.
func RegisterContactsTools(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	searchTool := mcp.NewTool("contacts_search",
		mcp.WithDescription("Search saved and interacted-with contacts by name or email"),
		accountOption(),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Name or email fragment to search for"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of contacts to return (default: 10)"),
		),
	)

	s.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Contacts(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		found, err := client.SearchContacts(ctx, stringArg(args, "query"), intArg(args, "maxResults", 10))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search contacts: %v", err)), nil
		}
		return jsonResult(found), nil
	})

	listTool := mcp.NewTool("contacts_list",
		mcp.WithDescription("List saved contacts ordered by first name"),
		accountOption(),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of contacts to return (default: 50)"),
		),
	)

	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Contacts(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		found, err := client.ListContacts(ctx, intArg(args, "maxResults", 50))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list contacts: %v", err)), nil
		}
		return jsonResult(found), nil
	})

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("contacts_create",
		append([]mcp.ToolOption{
			mcp.WithDescription("Create a contact; at least a name or an email is required"),
			accountOption(),
			mcp.WithString("givenName",
				mcp.Description("First name"),
			),
			mcp.WithString("familyName",
				mcp.Description("Last name"),
			),
			mcp.WithString("email",
				mcp.Description("Email address"),
			),
			mcp.WithString("phone",
				mcp.Description("Phone number"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(createTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Contacts(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		input := contacts.ContactInput{
			GivenName:  stringArg(args, "givenName"),
			FamilyName: stringArg(args, "familyName"),
			Email:      stringArg(args, "email"),
			Phone:      stringArg(args, "phone"),
		}

		contact, report, err := client.CreateContact(ctx, input, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create contact: %v", err)), nil
		}
		return mutationResult(report, contact), nil
	})

	return nil
}
