package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/tasks"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work with Google Tasks",
	}

	cmd.AddCommand(newTasksListsCmd())
	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksDoneCmd())
	cmd.AddCommand(newTasksDeleteCmd())
	return cmd
}

func newTasksListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List the account's task lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Tasks(ctx, cfg.Account)
			if err != nil {
				return err
			}

			lists, err := client.ListTaskLists(ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(lists))
			for _, l := range lists {
				rows = append(rows, []string{l.ID, l.Title})
			}
			return printTable([]string{"ID", "TITLE"}, rows, lists)
		},
	}
}

func newTasksListCmd() *cobra.Command {
	var (
		listRef       string
		showCompleted bool
		maxResults    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks on a task list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Tasks(ctx, cfg.Account)
			if err != nil {
				return err
			}

			taskListID, err := client.ResolveTaskList(ctx, listRef)
			if err != nil {
				return err
			}

			items, err := client.ListTasks(ctx, taskListID, tasks.ListTasksOptions{
				ShowCompleted: showCompleted,
				MaxResults:    maxResults,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			for _, t := range items {
				due := ""
				if !t.Due.IsZero() {
					due = t.Due.Format(gapi.DateLayout)
				}
				rows = append(rows, []string{t.ID, t.Status, due, t.Title})
			}
			return printTable([]string{"ID", "STATUS", "DUE", "TITLE"}, rows, items)
		},
	}

	cmd.Flags().StringVar(&listRef, "list", "", "Task list ID or title (default: the default list)")
	cmd.Flags().BoolVar(&showCompleted, "show-completed", false, "Include completed and hidden tasks")
	cmd.Flags().IntVar(&maxResults, "max-results", 100, "Maximum number of tasks to list")
	return cmd
}

func newTasksAddCmd() *cobra.Command {
	var (
		listRef string
		notes   string
		due     string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Tasks(ctx, cfg.Account)
			if err != nil {
				return err
			}

			taskListID, err := client.ResolveTaskList(ctx, listRef)
			if err != nil {
				return err
			}

			input := tasks.TaskInput{Title: args[0], Notes: notes}
			if due != "" {
				if input.Due, _, err = gapi.ParseTime(due); err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
			}

			return onceGuard(ctx, cfg, "tasks/add", func() error {
				task, report, err := client.CreateTask(ctx, taskListID, input, callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, task)
			})
		},
	}

	cmd.Flags().StringVar(&listRef, "list", "", "Task list ID or title (default: the default list)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&due, "due", "", "Due date, RFC3339 or YYYY-MM-DD (only the date is kept)")
	addMutationFlags(cmd)
	return cmd
}

func newTasksDoneCmd() *cobra.Command {
	var listRef string

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Tasks(ctx, cfg.Account)
			if err != nil {
				return err
			}

			taskListID, err := client.ResolveTaskList(ctx, listRef)
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "tasks/done", func() error {
				task, report, err := client.CompleteTask(ctx, taskListID, args[0], callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, task)
			})
		},
	}

	cmd.Flags().StringVar(&listRef, "list", "", "Task list ID or title (default: the default list)")
	addMutationFlags(cmd)
	return cmd
}

func newTasksDeleteCmd() *cobra.Command {
	var listRef string

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Tasks(ctx, cfg.Account)
			if err != nil {
				return err
			}

			taskListID, err := client.ResolveTaskList(ctx, listRef)
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "tasks/delete", func() error {
				report, err := client.DeleteTask(ctx, taskListID, args[0], callOpts()...)
				if err != nil {
					return err
				}
				if report != nil {
					return printJSON(report)
				}
				fmt.Printf("Deleted task %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&listRef, "list", "", "Task list ID or title (default: the default list)")
	addMutationFlags(cmd)
	return cmd
}
