// Package cli parses the command line and runs commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"quill/internal/commands"
	"quill/internal/config"
	"quill/internal/exitcode"
	"quill/internal/logging"
	"quill/internal/service"
	"quill/internal/storage"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// StoreFactory opens the local key/value store for cfg.
type StoreFactory func(cfg *config.Config) (storage.Store, error)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStoreFactory replaces the store opened from cfg.Storage.
func WithStoreFactory(f StoreFactory) Option {
	return func(d *Dispatcher) { d.stores = f }
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	stores   StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		factory:  factory,
		stores:   openStore,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func openStore(cfg *config.Config) (storage.Store, error) {
	return storage.Open(cfg.Storage, cfg.Dir)
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

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
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
	var configDir string
	var quiet bool
	var debug bool
	var driver string

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	fs.StringVar(&driver, "storage", "", "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		// Handle specific error types
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
			// Extract flag name
			parts := strings.Split(errStr, ":")
			if len(parts) > 0 {
				flagPart := strings.TrimSpace(parts[0])
				flagPart = strings.TrimPrefix(flagPart, "flag ")
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

		// Generic error handling for bad flag values
		if strings.Contains(errStr, "invalid value") {
			fmt.Fprintf(errOut, "error: %s\n", errStr)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if driver != "" {
		cfg.Storage = driver
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}

	log := logging.New(errOut, cfg.Debug)
	defer log.Sync()

	store, err := d.stores(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open storage: %s\n", err)
		return exitcode.UserError
	}
	defer func() {
		if err := storage.Close(store); err != nil {
			log.Warn("failed to close storage", zap.Error(err))
		}
	}()

	sess := commands.NewSession(cfg, store, log)

	// Check auth requirements
	if cmd.NeedsAuth() {
		if code := d.connect(ctx, sess, errOut); code != exitcode.Success {
			return code
		}

		// Guest notes pending from login are uploaded before the command
		// runs. A failure is retried by a later invocation and never fails
		// this one.
		if outcome, err := sess.Sync.Run(ctx); err == nil {
			log.Debug("sync agent finished", zap.Stringer("state", outcome.State))
		}
	}

	// Run command
	return cmd.Run(ctx, sess, positionalArgs, out, errOut)
}

// connect attaches the remote service to sess.
func (d *Dispatcher) connect(ctx context.Context, sess *commands.Session, errOut io.Writer) int {
	cfg := sess.Cfg

	if d.factory == nil {
		// No factory - check for required auth files and report user-friendly errors
		if cfg.Backend == config.BackendGoogleTasks && !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintf(errOut, "error: not logged in (run: quill login)\n")
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: no backend configured\n")
		return exitcode.AuthError
	}

	svc, err := d.factory(ctx, cfg)
	if err != nil {
		// Check if it's an auth error
		if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	sess.Connect(svc)
	return exitcode.Success
}
