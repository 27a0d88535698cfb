package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/drive"
	"github.com/bpopineau/gspace/internal/workspace"
)

// RegisterDriveTools registers the Drive tool family.
func RegisterDriveTools(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List Drive files, optionally filtered with Drive's query language"),
		accountOption(),
		mcp.WithString("query",
			mcp.Description("Drive query, e.g. \"name contains 'report'\""),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to return (default 25)"),
		),
	)

	s.AddTool(listFilesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Drive(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		files, err := client.ListFiles(ctx, drive.ListOptions{
			Query:      stringArg(args, "query"),
			MaxResults: intArg(args, "maxResults", 25),
			OrderBy:    "modifiedTime desc",
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
		}
		return jsonResult(files), nil
	})

	getFileTool := mcp.NewTool("drive_get_file",
		mcp.WithDescription("Get metadata of a Drive file by ID, URL or title"),
		accountOption(),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("File ID, Drive URL or exact title"),
		),
	)

	s.AddTool(getFileTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Drive(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		fileID, err := client.ResolveID(ctx, stringArg(args, "file"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve file: %v", err)), nil
		}
		info, err := client.GetFile(ctx, fileID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get file: %v", err)), nil
		}
		return jsonResult(info), nil
	})

	if readOnly {
		return nil
	}

	createFolderTool := mcp.NewTool("drive_create_folder",
		append([]mcp.ToolOption{
			mcp.WithDescription("Create a Drive folder"),
			accountOption(),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Folder name"),
			),
			mcp.WithString("parent",
				mcp.Description("Parent folder ID, URL or title"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(createFolderTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Drive(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var parents []string
		if parent := stringArg(args, "parent"); parent != "" {
			parentID, err := client.ResolveID(ctx, parent)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve parent: %v", err)), nil
			}
			parents = []string{parentID}
		}

		info, report, err := client.CreateFolder(ctx, stringArg(args, "name"), parents, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
		}
		return mutationResult(report, info), nil
	})

	shareFileTool := mcp.NewTool("drive_share_file",
		append([]mcp.ToolOption{
			mcp.WithDescription("Share a Drive file with a user"),
			accountOption(),
			mcp.WithString("file",
				mcp.Required(),
				mcp.Description("File ID, Drive URL or exact title"),
			),
			mcp.WithString("email",
				mcp.Required(),
				mcp.Description("Email address of the grantee"),
			),
			mcp.WithString("role",
				mcp.Description("Role to grant: reader, commenter or writer (default reader)"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(shareFileTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Drive(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		fileID, err := client.ResolveID(ctx, stringArg(args, "file"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve file: %v", err)), nil
		}

		role := stringArg(args, "role")
		if role == "" {
			role = "reader"
		}

		permission, report, err := client.ShareFile(ctx, fileID, &drive.ShareOptions{
			Type:         "user",
			Role:         role,
			EmailAddress: stringArg(args, "email"),
		}, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to share file: %v", err)), nil
		}
		return mutationResult(report, permission), nil
	})

	trashFileTool := mcp.NewTool("drive_trash_file",
		append([]mcp.ToolOption{
			mcp.WithDescription("Move a Drive file to the trash"),
			accountOption(),
			mcp.WithString("file",
				mcp.Required(),
				mcp.Description("File ID, Drive URL or exact title"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(trashFileTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Drive(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		fileID, err := client.ResolveID(ctx, stringArg(args, "file"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve file: %v", err)), nil
		}

		report, err := client.TrashFile(ctx, fileID, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to trash file: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"trashed": fileID}), nil
	})

	return nil
}
