package tasks

import (
	"time"

	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/bpopineau/gspace/internal/gapi"
)

// Task status values used by the Tasks API.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// TaskList describes one task list.
type TaskList struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Updated time.Time `json:"updated,omitempty"`
}

// Task is a flattened task. Due dates carry date precision only; the
// Tasks API discards the time portion.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"`
	Due       time.Time `json:"due,omitempty"`
	Completed time.Time `json:"completed,omitempty"`
	Parent    string    `json:"parent,omitempty"`
	Position  string    `json:"position,omitempty"`
}

// TaskInput holds the fields for creating or updating a task. Zero
// values mean "leave unset" (create) or "keep as is" (update).
type TaskInput struct {
	Title    string
	Notes    string
	Status   string
	Due      time.Time
	Parent   string // parent task ID, makes this a subtask
	Previous string // previous sibling task ID, controls ordering
}

// ListTasksOptions controls task listing.
type ListTasksOptions struct {
	ShowCompleted bool
	DueMin        time.Time
	DueMax        time.Time
	MaxResults    int
}

func toTaskList(tl *tasksapi.TaskList) TaskList {
	if tl == nil {
		return TaskList{}
	}
	return TaskList{
		ID:      tl.Id,
		Title:   tl.Title,
		Updated: gapi.ParseRFC3339(tl.Updated),
	}
}

func toTask(t *tasksapi.Task) Task {
	if t == nil {
		return Task{}
	}

	result := Task{
		ID:       t.Id,
		Title:    t.Title,
		Notes:    t.Notes,
		Status:   t.Status,
		Parent:   t.Parent,
		Position: t.Position,
		Due:      gapi.ParseRFC3339(t.Due),
	}
	if t.Completed != nil {
		result.Completed = gapi.ParseRFC3339(*t.Completed)
	}
	return result
}
