package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasksync/internal/backend/actionstore"
	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/logging"
	"tasksync/internal/service"
	"tasksync/internal/session"
	"tasksync/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive task list.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive task list" }
func (c *UICmd) Usage() string     { return "tasksync ui" }

// NeedsAuth is false: the UI shows its own sign-in surface.
func (c *UICmd) NeedsAuth() bool { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := cfg.Validate(); err != nil {
		return reportError(errOut, err)
	}

	// The terminal belongs to the UI; logs only go to the file.
	logger := logging.Discard()
	if err := cfg.EnsureDir(); err == nil {
		if l, err := logging.Open(cfg.LogPath(), nil, cfg.Debug); err == nil {
			logger = l
		}
	}
	defer logger.Close()
	cfg.Logger = logger.Logger

	provider, err := session.ProviderFor(cfg)
	if err != nil {
		return reportError(errOut, err)
	}

	newService := func(ctx context.Context, gate *session.Gate) (service.Service, error) {
		return actionstore.NewForGate(ctx, cfg, gate)
	}

	opts := tui.Options{Theme: cfg.Theme, Logger: logger.Logger}
	if err := tui.Run(ctx, session.NewGate(provider), newService, opts); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
