package commands

import (
	"context"
	"flag"
	"io"

	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/output"
	"tasksync/internal/service"
	"tasksync/internal/session"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd prints the configuration and session state.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show endpoint and sign-in state" }
func (c *StatusCmd) Usage() string     { return "tasksync status" }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	st := output.Status{
		ConfigDir: cfg.Dir,
		Endpoint:  cfg.Endpoint,
		Auth:      cfg.Auth,
		State:     session.Unauthenticated.String(),
	}

	if provider, err := session.ProviderFor(cfg); err == nil {
		gate := session.NewGate(provider)
		state, err := gate.Restore(ctx)
		if err != nil {
			cfg.Log().Warn("failed to restore session", "error", err)
		}
		st.State = state.String()
		if s := gate.Session(); s != nil {
			st.Subject = s.Subject
		}
	}

	output.FormatStatus(out, st)
	return exitcode.Success
}
