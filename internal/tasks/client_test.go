package tasks

import (
	"context"
	"testing"
	"time"

	tasksapi "google.golang.org/api/tasks/v1"
)

func TestToTask(t *testing.T) {
	completed := "2024-03-15T12:00:00Z"
	task := toTask(&tasksapi.Task{
		Id:        "task1",
		Title:     "Write report",
		Notes:     "quarterly numbers",
		Status:    StatusCompleted,
		Due:       "2024-03-20T00:00:00Z",
		Completed: &completed,
		Parent:    "parent1",
	})

	if task.ID != "task1" || task.Title != "Write report" {
		t.Errorf("Unexpected task: %+v", task)
	}
	if task.Due.Format("2006-01-02") != "2024-03-20" {
		t.Errorf("Due = %v", task.Due)
	}
	if task.Completed.IsZero() {
		t.Error("Completed must be parsed")
	}
	if task.Parent != "parent1" {
		t.Errorf("Parent = %s", task.Parent)
	}
}

func TestToTaskNil(t *testing.T) {
	task := toTask(nil)
	if task.ID != "" {
		t.Errorf("Expected zero task, got %+v", task)
	}
}

func TestToTaskUnsetDates(t *testing.T) {
	task := toTask(&tasksapi.Task{Id: "task2", Status: StatusNeedsAction})
	if !task.Due.IsZero() || !task.Completed.IsZero() {
		t.Errorf("Unset dates must stay zero: %+v", task)
	}
}

func TestToTaskList(t *testing.T) {
	tl := toTaskList(&tasksapi.TaskList{
		Id:      "list1",
		Title:   "Inbox",
		Updated: "2024-03-15T08:00:00Z",
	})

	if tl.ID != "list1" || tl.Title != "Inbox" {
		t.Errorf("Unexpected task list: %+v", tl)
	}
	want := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	if !tl.Updated.Equal(want) {
		t.Errorf("Updated = %v, want %v", tl.Updated, want)
	}
}

func TestResolveTaskListDefault(t *testing.T) {
	c := &Client{}

	for _, ref := range []string{"", "@default"} {
		got, err := c.ResolveTaskList(context.Background(), ref)
		if err != nil {
			t.Fatalf("ResolveTaskList(%q): %v", ref, err)
		}
		if got != "@default" {
			t.Errorf("ResolveTaskList(%q) = %s, want @default", ref, got)
		}
	}
}

func TestCreateTaskValidation(t *testing.T) {
	c := &Client{}
	if _, _, err := c.CreateTask(context.Background(), "@default", TaskInput{}); err == nil {
		t.Error("Expected error for missing title")
	}
}

func TestDeleteTaskValidation(t *testing.T) {
	c := &Client{}
	if _, err := c.DeleteTask(context.Background(), "", "task1"); err == nil {
		t.Error("Expected error for missing taskListID")
	}
	if _, err := c.DeleteTask(context.Background(), "@default", ""); err == nil {
		t.Error("Expected error for missing taskID")
	}
}
