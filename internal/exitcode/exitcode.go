// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"tasksync/internal/config"
	"tasksync/internal/session"
	"tasksync/internal/viewmodel"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, empty input).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a store/network error.
	BackendError = 3
)

// For maps an error returned while running a command to an exit code.
func For(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, viewmodel.ErrEmptyInput):
		return UserError
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrNoOAuthClient),
		errors.Is(err, config.ErrNoEndpoint),
		errors.Is(err, config.ErrInvalid):
		return AuthError
	default:
		return BackendError
	}
}
