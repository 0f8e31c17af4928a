// Package commands holds the tasksync subcommands. Each command registers
// itself with DefaultRegistry from an init function.
package commands

import (
	"context"
	"flag"
	"io"

	"tasksync/internal/config"
	"tasksync/internal/service"
)

// Command is one tasksync subcommand.
type Command interface {
	// Name is the word that selects the command.
	Name() string

	// Aliases are further words that select the command.
	Aliases() []string

	// Synopsis is the one-line description shown by help.
	Synopsis() string

	// Usage is the invocation shown by help.
	Usage() string

	// NeedsAuth reports whether Run talks to the task store. The
	// dispatcher only builds a store client for such commands.
	NeedsAuth() bool

	// RegisterFlags adds command-specific flags next to the common ones.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command and returns the process exit code.
	// cfg carries the resolved configuration and logger. svc is the task
	// store client, or nil when NeedsAuth is false. args are the
	// positional arguments left after flag parsing.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
