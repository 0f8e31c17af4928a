// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task item.
// Name is both the display label and the identity; there is no separate ID.
type Task struct {
	Name     string
	Complete bool
}
