package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/logging"
	"taskcli/internal/route"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

// ServiceFactory creates a Service from config and the session store.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, store session.Store) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// SetInput sets the reader used for interactive prompts.
func (d *Dispatcher) SetInput(in io.Reader) {
	d.in = in
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

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
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
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir, server string
	var quiet, debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&server, "server", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
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
	if server != "" {
		if err := cfg.SetBaseURL(server); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.In = d.in
	cfg.Log = logging.New(debug, errOut)
	defer func() { _ = cfg.Log.Sync() }()

	log := cfg.Logger().Named("cli")
	log.Debug("dispatch", zap.String("command", cmd.Name()), zap.String("server", cfg.BaseURL))

	store := session.NewFileStore(cfg.TokenPath(), cfg.Logger().Named("session"))

	// Route guard: task commands need a session.
	if cmd.NeedsAuth() && route.Resolve(store) != route.TaskView {
		fmt.Fprintf(errOut, "error: not logged in (run: %s login)\n", config.AppName)
		return exitcode.AuthError
	}

	var svc service.Service
	if d.factory != nil {
		svc, err = d.factory(ctx, cfg, store)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, cfg, store, svc, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return errStr
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}
	return errStr
}
