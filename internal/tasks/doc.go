// Package tasks wraps the Google Tasks API with task list management and
// task CRUD, completion and ordering operations.
package tasks
