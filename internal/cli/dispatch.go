package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tasksync/internal/commands"
	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/logging"
	"tasksync/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var endpoint string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&endpoint, "endpoint", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(err, errOut)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if endpoint != "" {
		cfg.Endpoint = strings.TrimSpace(endpoint)
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := openLogger(cfg, errOut)
	defer logger.Close()
	cfg.Logger = logger.Logger
	cfg.Logger.Debug("dispatch", "command", cmd.Name(), "endpoint", cfg.Endpoint, "auth", cfg.Auth)

	var svc service.Service
	if cmd.NeedsAuth() {
		if d.factory != nil {
			svc, err = d.factory(ctx, cfg)
			if err != nil {
				return reportFactoryError(err, errOut)
			}
		} else if code, ok := preflight(cfg, errOut); !ok {
			// No factory: pre-flight checks only, svc stays nil.
			return code
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// openLogger logs to the config directory when it exists, and to errOut
// with --debug.
func openLogger(cfg *config.Config, errOut io.Writer) *logging.Logger {
	var tee io.Writer
	if cfg.Debug {
		tee = errOut
	}
	path := ""
	if info, err := os.Stat(cfg.Dir); err == nil && info.IsDir() {
		path = cfg.LogPath()
	}
	logger, err := logging.Open(path, tee, cfg.Debug)
	if err != nil {
		// The log file is best effort.
		logger, _ = logging.Open("", tee, cfg.Debug)
	}
	return logger
}

func reportFlagError(err error, errOut io.Writer) int {
	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 0 {
			flagPart := strings.TrimSpace(parts[len(parts)-1])
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return exitcode.UserError
		}
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}

func reportFactoryError(err error, errOut io.Writer) int {
	code := exitcode.For(err)
	switch code {
	case exitcode.AuthError:
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
	case exitcode.BackendError:
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
	default:
		fmt.Fprintf(errOut, "error: %s\n", err)
	}
	return code
}

// preflight reports missing configuration or credentials without touching
// the network.
func preflight(cfg *config.Config, errOut io.Writer) (int, bool) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError, false
	}
	if cfg.Auth == config.AuthNone {
		return exitcode.Success, true
	}
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
		return exitcode.AuthError, false
	}
	if !cfg.HasToken() {
		fmt.Fprintf(errOut, "error: not logged in (run: tasksync login)\n")
		return exitcode.AuthError, false
	}
	return exitcode.Success, true
}
