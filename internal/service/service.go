// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All calls to the remote task service go through this interface.
// Commands never build HTTP requests directly.
type Service interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates an account and returns a usable session token.
	Register(ctx context.Context, username, email, password string) (string, error)

	// ListTasks returns all tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server's representation.
	CreateTask(ctx context.Context, title string) (Task, error)

	// UpdateTask changes a task's title and returns the server's representation.
	UpdateTask(ctx context.Context, id, title string) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error

	// ToggleComplete flips a task's completion on the server and returns
	// the server's representation.
	ToggleComplete(ctx context.Context, id string) (Task, error)
}
