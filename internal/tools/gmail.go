package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/gmail"
	"github.com/bpopineau/gspace/internal/workspace"
)

// RegisterGmailTools registers the Gmail tool family.
func RegisterGmailTools(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	searchTool := mcp.NewTool("gmail_search_messages",
		mcp.WithDescription("Search messages with Gmail query syntax, e.g. 'from:alice is:unread'"),
		accountOption(),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of messages to return (default: 25)"),
		),
	)

	s.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		messages, err := client.SearchMessages(ctx, stringArg(args, "query"), intArg(args, "maxResults", 25))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search messages: %v", err)), nil
		}
		return jsonResult(messages), nil
	})

	getBodyTool := mcp.NewTool("gmail_get_message_body",
		mcp.WithDescription("Fetch the decoded body of a message"),
		accountOption(),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Message ID"),
		),
		mcp.WithString("format",
			mcp.Description("Preferred body format, 'text' or 'html' (default: text)"),
		),
	)

	s.AddTool(getBodyTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		format := stringArg(args, "format")
		if format == "" {
			format = "text"
		}

		body, err := client.GetMessageBody(ctx, stringArg(args, "messageId"), format)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get message body: %v", err)), nil
		}
		return mcp.NewToolResultText(body), nil
	})

	getThreadTool := mcp.NewTool("gmail_get_thread",
		mcp.WithDescription("Fetch every message in a conversation thread"),
		accountOption(),
		mcp.WithString("threadId",
			mcp.Required(),
			mcp.Description("Thread ID"),
		),
	)

	s.AddTool(getThreadTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		messages, err := client.GetThread(ctx, stringArg(args, "threadId"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get thread: %v", err)), nil
		}
		return jsonResult(messages), nil
	})

	listLabelsTool := mcp.NewTool("gmail_list_labels",
		mcp.WithDescription("List the account's labels"),
		accountOption(),
	)

	s.AddTool(listLabelsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		labels, err := client.ListLabels(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list labels: %v", err)), nil
		}
		return jsonResult(labels), nil
	})

	if readOnly {
		return nil
	}

	sendEmailTool := mcp.NewTool("gmail_send_email",
		append([]mcp.ToolOption{
			mcp.WithDescription("Compose and send an email"),
			accountOption(),
			mcp.WithString("to",
				mcp.Required(),
				mcp.Description("Comma-separated recipient addresses"),
			),
			mcp.WithString("cc",
				mcp.Description("Comma-separated CC addresses"),
			),
			mcp.WithString("bcc",
				mcp.Description("Comma-separated BCC addresses"),
			),
			mcp.WithString("subject",
				mcp.Required(),
				mcp.Description("Subject line"),
			),
			mcp.WithString("body",
				mcp.Required(),
				mcp.Description("Message body"),
			),
			mcp.WithBoolean("html",
				mcp.Description("Send the body as HTML instead of plain text"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(sendEmailTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		msg := &gmail.EmailMessage{
			To:      splitListArg(args, "to"),
			Cc:      splitListArg(args, "cc"),
			Bcc:     splitListArg(args, "bcc"),
			Subject: stringArg(args, "subject"),
			Body:    stringArg(args, "body"),
			IsHTML:  boolArg(args, "html"),
		}

		messageID, report, err := client.SendEmail(ctx, msg, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to send email: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"status": "sent", "messageId": messageID}), nil
	})

	replyTool := mcp.NewTool("gmail_reply_to_email",
		append([]mcp.ToolOption{
			mcp.WithDescription("Reply to a message, keeping it in its thread"),
			accountOption(),
			mcp.WithString("messageId",
				mcp.Required(),
				mcp.Description("Message ID to reply to"),
			),
			mcp.WithString("body",
				mcp.Required(),
				mcp.Description("Reply body"),
			),
			mcp.WithString("cc",
				mcp.Description("Comma-separated CC addresses"),
			),
			mcp.WithBoolean("html",
				mcp.Description("Send the body as HTML instead of plain text"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(replyTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		messageID, report, err := client.ReplyToEmail(ctx,
			stringArg(args, "messageId"),
			stringArg(args, "body"),
			splitListArg(args, "cc"),
			nil,
			boolArg(args, "html"),
			callOptions(args)...,
		)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to reply: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"status": "sent", "messageId": messageID}), nil
	})

	archiveTool := mcp.NewTool("gmail_archive_thread",
		append([]mcp.ToolOption{
			mcp.WithDescription("Archive a thread by removing it from the inbox"),
			accountOption(),
			mcp.WithString("threadId",
				mcp.Required(),
				mcp.Description("Thread ID"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(archiveTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		report, err := client.ArchiveThread(ctx, stringArg(args, "threadId"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to archive thread: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"status": "archived", "threadId": stringArg(args, "threadId")}), nil
	})

	trashTool := mcp.NewTool("gmail_trash_message",
		append([]mcp.ToolOption{
			mcp.WithDescription("Move a message to the trash"),
			accountOption(),
			mcp.WithString("messageId",
				mcp.Required(),
				mcp.Description("Message ID"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(trashTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Gmail(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		report, err := client.TrashMessage(ctx, stringArg(args, "messageId"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to trash message: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"status": "trashed", "messageId": stringArg(args, "messageId")}), nil
	})

	return nil
}
