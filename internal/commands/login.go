package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/service"
	"tasksync/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in to the task store" }
func (c *LoginCmd) Usage() string     { return "tasksync login" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	provider, err := session.ProviderFor(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if cfg.Auth != config.AuthNone && !cfg.HasOAuthClient() {
		printClientSetup(cfg, errOut)
		return exitcode.AuthError
	}

	gate := session.NewGate(provider)

	// Check if already logged in (token exists and is usable)
	state, err := gate.Restore(ctx)
	if err != nil {
		cfg.Log().Warn("stored session unusable", "error", err)
	}
	if state == session.Authenticated {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	prompt := func(url string) {
		fmt.Fprintln(errOut, "Open this URL in your browser:")
		fmt.Fprintln(errOut, url)
	}
	if err := gate.SignIn(ctx, prompt); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(errOut, "error: cancelled")
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		if s := gate.Session(); s != nil && s.Subject != "" {
			fmt.Fprintf(out, "ok (%s)\n", s.Subject)
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}

// printClientSetup explains how to provide OAuth client credentials.
func printClientSetup(cfg *config.Config, errOut io.Writer) {
	fmt.Fprintf(errOut, "error: %s not found in %s\n\n", config.OAuthClientFile, cfg.Dir)
	fmt.Fprintln(errOut, "To sign in you need the OAuth client of the task store's user pool:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Ask the store operator for an app client that allows the")
	fmt.Fprintln(errOut, "   authorization code grant with PKCE")
	fmt.Fprintln(errOut, "2. Register these callback URLs on it:")
	fmt.Fprintln(errOut, "   http://localhost:8085/callback ... http://localhost:8089/callback")
	fmt.Fprintln(errOut, "3. Save the client as JSON:")
	fmt.Fprintln(errOut, `   {"client_id": "...", "auth_url": "...", "token_url": "...", "scopes": ["openid", "email"]}`)
	fmt.Fprintf(errOut, "   to %s\n", cfg.OAuthClientPath())
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'tasksync login' again.")
}
