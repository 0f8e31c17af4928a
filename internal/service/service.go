// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task store operations.
// Commands and the view-model never talk to the wire protocol directly.
type Service interface {
	// List returns the full task collection in store order.
	// A store reply without items yields an empty collection, not an error.
	List(ctx context.Context) ([]Task, error)

	// Add creates a task that is not complete.
	Add(ctx context.Context, name string) error

	// Delete removes a task by name.
	Delete(ctx context.Context, name string) error

	// SetComplete sets the completion state of a task by name.
	SetComplete(ctx context.Context, name string, complete bool) error
}
