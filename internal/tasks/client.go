package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

// Client wraps the Google Tasks API service.
type Client struct {
	svc     *tasksapi.Service
	inv     *gapi.Invoker
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// New creates a client from an already-constructed Tasks service.
func New(svc *tasksapi.Service, inv *gapi.Invoker, account string) *Client {
	return &Client{svc: svc, inv: inv, account: account}
}

// NewClientForAccount creates a Tasks client with OAuth2 authentication
// for a specific account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := tasksapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	inv := gapi.NewInvoker(gapi.ServiceTasks, gapi.NewRateLimiter(gapi.ServiceTasks), nil, nil)
	return New(svc, inv, account), nil
}

// NewClient creates a Tasks client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListTaskLists lists all task lists of the authenticated user.
func (c *Client) ListTaskLists(ctx context.Context) ([]TaskList, error) {
	items, err := gapi.CollectPages(ctx, 0, func(ctx context.Context, pageToken string) ([]*tasksapi.TaskList, string, error) {
		var result *tasksapi.TaskLists
		err := c.inv.Read(ctx, "tasklists.list", func() error {
			var callErr error
			result, callErr = c.svc.Tasklists.List().
				PageToken(pageToken).
				Context(ctx).
				Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return result.Items, result.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	taskLists := make([]TaskList, 0, len(items))
	for _, tl := range items {
		taskLists = append(taskLists, toTaskList(tl))
	}
	return taskLists, nil
}

// GetTaskList retrieves a task list by ID.
func (c *Client) GetTaskList(ctx context.Context, taskListID string) (*TaskList, error) {
	if taskListID == "" {
		return nil, fmt.Errorf("taskListID is required")
	}

	var tl *tasksapi.TaskList
	err := c.inv.Read(ctx, "tasklists.get", func() error {
		var callErr error
		tl, callErr = c.svc.Tasklists.Get(taskListID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get task list %s: %w", taskListID, err)
	}

	result := toTaskList(tl)
	return &result, nil
}

// ResolveTaskList translates a task list reference into a task list ID.
// "@default" and the empty string name the default list; anything that
// does not match a list title case-insensitively is treated as an ID.
func (c *Client) ResolveTaskList(ctx context.Context, ref string) (string, error) {
	if ref == "" || ref == "@default" {
		return "@default", nil
	}

	lists, err := c.ListTaskLists(ctx)
	if err != nil {
		return "", err
	}
	for _, tl := range lists {
		if strings.EqualFold(tl.Title, ref) {
			return tl.ID, nil
		}
	}
	for _, tl := range lists {
		if tl.ID == ref {
			return tl.ID, nil
		}
	}
	return "", fmt.Errorf("task list %q: %w", ref, gapi.ErrNotFound)
}

// CreateTaskList creates a new task list.
func (c *Client) CreateTaskList(ctx context.Context, title string, opts ...gapi.CallOption) (*TaskList, *dryrun.Report, error) {
	if title == "" {
		return nil, nil, fmt.Errorf("title is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("tasks", "tasklists.insert", title).
			WithChange("title", title).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	var created *tasksapi.TaskList
	err := c.inv.Mutate(ctx, "tasklists.insert", callOpts, func() error {
		var callErr error
		created, callErr = c.svc.Tasklists.Insert(&tasksapi.TaskList{Title: title}).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create task list: %w", err)
	}

	result := toTaskList(created)
	return &result, nil, nil
}

// DeleteTaskList deletes a task list and all tasks in it.
func (c *Client) DeleteTaskList(ctx context.Context, taskListID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if taskListID == "" {
		return nil, fmt.Errorf("taskListID is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("tasks", "tasklists.delete", taskListID).
			WithReason(callOpts.Reason)), nil
	}

	// Deleting twice is harmless
	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "tasklists.delete", callOpts, func() error {
		return c.svc.Tasklists.Delete(taskListID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete task list %s: %w", taskListID, err)
	}
	return nil, nil
}

// ListTasks lists tasks in a task list.
func (c *Client) ListTasks(ctx context.Context, taskListID string, opts ListTasksOptions) ([]Task, error) {
	if taskListID == "" {
		taskListID = "@default"
	}

	items, err := gapi.CollectPages(ctx, opts.MaxResults, func(ctx context.Context, pageToken string) ([]*tasksapi.Task, string, error) {
		call := c.svc.Tasks.List(taskListID).
			PageToken(pageToken).
			Context(ctx)

		if opts.ShowCompleted {
			call = call.ShowCompleted(true).ShowHidden(true)
		}
		if !opts.DueMin.IsZero() {
			call = call.DueMin(opts.DueMin.Format(time.RFC3339))
		}
		if !opts.DueMax.IsZero() {
			call = call.DueMax(opts.DueMax.Format(time.RFC3339))
		}

		var result *tasksapi.Tasks
		err := c.inv.Read(ctx, "tasks.list", func() error {
			var callErr error
			result, callErr = call.Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}
		return result.Items, result.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks in %s: %w", taskListID, err)
	}

	tasks := make([]Task, 0, len(items))
	for _, t := range items {
		tasks = append(tasks, toTask(t))
	}
	return tasks, nil
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, taskListID, taskID string) (*Task, error) {
	if taskListID == "" || taskID == "" {
		return nil, fmt.Errorf("taskListID and taskID are required")
	}

	var t *tasksapi.Task
	err := c.inv.Read(ctx, "tasks.get", func() error {
		var callErr error
		t, callErr = c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}

	result := toTask(t)
	return &result, nil
}

// CreateTask creates a new task. The due date keeps date precision only.
func (c *Client) CreateTask(ctx context.Context, taskListID string, input TaskInput, opts ...gapi.CallOption) (*Task, *dryrun.Report, error) {
	if taskListID == "" {
		taskListID = "@default"
	}
	if input.Title == "" {
		return nil, nil, fmt.Errorf("task title is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("tasks", "tasks.insert", taskListID).
			WithChange("title", input.Title).
			WithReason(callOpts.Reason)
		if !input.Due.IsZero() {
			report = report.WithChange("due", input.Due.Format(gapi.DateLayout))
		}
		return nil, c.inv.Simulated(ctx, report), nil
	}

	t := &tasksapi.Task{
		Title:  input.Title,
		Notes:  input.Notes,
		Status: input.Status,
	}
	if !input.Due.IsZero() {
		t.Due = input.Due.Format(time.RFC3339)
	}

	call := c.svc.Tasks.Insert(taskListID, t).Context(ctx)
	if input.Parent != "" {
		call = call.Parent(input.Parent)
	}
	if input.Previous != "" {
		call = call.Previous(input.Previous)
	}

	var created *tasksapi.Task
	err := c.inv.Mutate(ctx, "tasks.insert", callOpts, func() error {
		var callErr error
		created, callErr = call.Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create task: %w", err)
	}

	result := toTask(created)
	return &result, nil, nil
}

// UpdateTask updates an existing task. Only non-zero input fields
// overwrite the stored task.
func (c *Client) UpdateTask(ctx context.Context, taskListID, taskID string, input TaskInput, opts ...gapi.CallOption) (*Task, *dryrun.Report, error) {
	if taskListID == "" || taskID == "" {
		return nil, nil, fmt.Errorf("taskListID and taskID are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("tasks", "tasks.update", taskID).
			WithChange("title", input.Title).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	var existing *tasksapi.Task
	err := c.inv.Read(ctx, "tasks.get", func() error {
		var callErr error
		existing, callErr = c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get existing task %s: %w", taskID, err)
	}

	if input.Title != "" {
		existing.Title = input.Title
	}
	if input.Notes != "" {
		existing.Notes = input.Notes
	}
	if input.Status != "" {
		existing.Status = input.Status
	}
	if !input.Due.IsZero() {
		existing.Due = input.Due.Format(time.RFC3339)
	}

	// A full update converges on retry
	callOpts.RetryWrite = true

	var updated *tasksapi.Task
	err = c.inv.Mutate(ctx, "tasks.update", callOpts, func() error {
		var callErr error
		updated, callErr = c.svc.Tasks.Update(taskListID, taskID, existing).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}

	result := toTask(updated)
	return &result, nil, nil
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, taskListID, taskID string, opts ...gapi.CallOption) (*Task, *dryrun.Report, error) {
	if taskListID == "" || taskID == "" {
		return nil, nil, fmt.Errorf("taskListID and taskID are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("tasks", "tasks.update", taskID).
			WithChange("status", StatusCompleted).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	return c.UpdateTask(ctx, taskListID, taskID, TaskInput{Status: StatusCompleted}, opts...)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskListID, taskID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if taskListID == "" || taskID == "" {
		return nil, fmt.Errorf("taskListID and taskID are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("tasks", "tasks.delete", taskID).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "tasks.delete", callOpts, func() error {
		return c.svc.Tasks.Delete(taskListID, taskID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return nil, nil
}

// MoveTask repositions a task under a parent or after a sibling.
func (c *Client) MoveTask(ctx context.Context, taskListID, taskID, parent, previous string, opts ...gapi.CallOption) (*Task, *dryrun.Report, error) {
	if taskListID == "" || taskID == "" {
		return nil, nil, fmt.Errorf("taskListID and taskID are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("tasks", "tasks.move", taskID).
			WithChange("parent", parent).
			WithChange("previous", previous).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	call := c.svc.Tasks.Move(taskListID, taskID).Context(ctx)
	if parent != "" {
		call = call.Parent(parent)
	}
	if previous != "" {
		call = call.Previous(previous)
	}

	var moved *tasksapi.Task
	err := c.inv.Mutate(ctx, "tasks.move", callOpts, func() error {
		var callErr error
		moved, callErr = call.Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to move task %s: %w", taskID, err)
	}

	result := toTask(moved)
	return &result, nil, nil
}

// ClearCompletedTasks removes all completed tasks from a task list.
func (c *Client) ClearCompletedTasks(ctx context.Context, taskListID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if taskListID == "" {
		return nil, fmt.Errorf("taskListID is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("tasks", "tasks.clear", taskListID).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "tasks.clear", callOpts, func() error {
		return c.svc.Tasks.Clear(taskListID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clear completed tasks in %s: %w", taskListID, err)
	}
	return nil, nil
}
