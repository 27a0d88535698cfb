package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/tasks"
	"github.com/bpopineau/gspace/internal/workspace"
)

// RegisterTasksTools registers the Tasks tool family.
func RegisterTasksTools(s *mcpserver.MCPServer, ws *workspace.Workspace, readOnly bool) error {
	listTaskListsTool := mcp.NewTool("tasks_list_tasklists",
		mcp.WithDescription("List the account's task lists"),
		accountOption(),
	)

	s.AddTool(listTaskListsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Tasks(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lists, err := client.ListTaskLists(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list task lists: %v", err)), nil
		}
		return jsonResult(lists), nil
	})

	listTasksTool := mcp.NewTool("tasks_list_tasks",
		mcp.WithDescription("List tasks on a task list"),
		accountOption(),
		mcp.WithString("tasklist",
			mcp.Description("Task list ID or title (default: the default list)"),
		),
		mcp.WithBoolean("showCompleted",
			mcp.Description("Include completed and hidden tasks"),
		),
		mcp.WithString("dueMin",
			mcp.Description("Only tasks due on or after this date, RFC3339 or YYYY-MM-DD"),
		),
		mcp.WithString("dueMax",
			mcp.Description("Only tasks due before this date, RFC3339 or YYYY-MM-DD"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of tasks to return (default: 100)"),
		),
	)

	s.AddTool(listTasksTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Tasks(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskListID, err := client.ResolveTaskList(ctx, stringArg(args, "tasklist"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve task list: %v", err)), nil
		}

		opts := tasks.ListTasksOptions{
			ShowCompleted: boolArg(args, "showCompleted"),
			MaxResults:    intArg(args, "maxResults", 100),
		}
		if raw := stringArg(args, "dueMin"); raw != "" {
			t, _, err := gapi.ParseTime(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid dueMin: %v", err)), nil
			}
			opts.DueMin = t
		}
		if raw := stringArg(args, "dueMax"); raw != "" {
			t, _, err := gapi.ParseTime(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid dueMax: %v", err)), nil
			}
			opts.DueMax = t
		}

		items, err := client.ListTasks(ctx, taskListID, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
		}
		return jsonResult(items), nil
	})

	if readOnly {
		return nil
	}

	createTaskTool := mcp.NewTool("tasks_create_task",
		append([]mcp.ToolOption{
			mcp.WithDescription("Create a task on a task list"),
			accountOption(),
			mcp.WithString("tasklist",
				mcp.Description("Task list ID or title (default: the default list)"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Task title"),
			),
			mcp.WithString("notes",
				mcp.Description("Free-form notes"),
			),
			mcp.WithString("due",
				mcp.Description("Due date, RFC3339 or YYYY-MM-DD (only the date is kept)"),
			),
			mcp.WithString("parent",
				mcp.Description("Parent task ID, makes this a subtask"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(createTaskTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Tasks(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskListID, err := client.ResolveTaskList(ctx, stringArg(args, "tasklist"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve task list: %v", err)), nil
		}

		input := tasks.TaskInput{
			Title:  stringArg(args, "title"),
			Notes:  stringArg(args, "notes"),
			Parent: stringArg(args, "parent"),
		}
		if raw := stringArg(args, "due"); raw != "" {
			t, _, err := gapi.ParseTime(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid due: %v", err)), nil
			}
			input.Due = t
		}

		task, report, err := client.CreateTask(ctx, taskListID, input, callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
		}
		return mutationResult(report, task), nil
	})

	completeTaskTool := mcp.NewTool("tasks_complete_task",
		append([]mcp.ToolOption{
			mcp.WithDescription("Mark a task as completed"),
			accountOption(),
			mcp.WithString("tasklist",
				mcp.Description("Task list ID or title (default: the default list)"),
			),
			mcp.WithString("taskId",
				mcp.Required(),
				mcp.Description("Task ID"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(completeTaskTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Tasks(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskListID, err := client.ResolveTaskList(ctx, stringArg(args, "tasklist"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve task list: %v", err)), nil
		}

		task, report, err := client.CompleteTask(ctx, taskListID, stringArg(args, "taskId"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
		}
		return mutationResult(report, task), nil
	})

	deleteTaskTool := mcp.NewTool("tasks_delete_task",
		append([]mcp.ToolOption{
			mcp.WithDescription("Delete a task from a task list"),
			accountOption(),
			mcp.WithString("tasklist",
				mcp.Description("Task list ID or title (default: the default list)"),
			),
			mcp.WithString("taskId",
				mcp.Required(),
				mcp.Description("Task ID"),
			),
		}, dryRunOptions()...)...,
	)

	s.AddTool(deleteTaskTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := requestArgs(request)

		client, err := ws.Tasks(ctx, stringArg(args, "account"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskListID, err := client.ResolveTaskList(ctx, stringArg(args, "tasklist"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve task list: %v", err)), nil
		}

		report, err := client.DeleteTask(ctx, taskListID, stringArg(args, "taskId"), callOptions(args)...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete task: %v", err)), nil
		}
		return mutationResult(report, map[string]string{"status": "deleted", "taskId": stringArg(args, "taskId")}), nil
	})

	return nil
}
