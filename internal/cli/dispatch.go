package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"htask/internal/analytics"
	"htask/internal/commands"
	"htask/internal/config"
	"htask/internal/exitcode"
	"htask/internal/localstore"
	"htask/internal/service"
	"htask/internal/store"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Service, error)

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
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
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

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
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
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log := newLogger(debug, errOut)
	defer func() { _ = log.Sync() }()

	if !cmd.NeedsAuth() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: backend error: no backend configured")
		return exitcode.BackendError
	}
	svc, err := d.factory(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	settings, closeSettings := openSettings(ctx, cfg, log)
	defer closeSettings()

	st := store.New(svc,
		store.WithSettings(settings),
		store.WithTracker(analytics.NewLogTracker(log)),
		store.WithLogger(log),
	)
	return cmd.Run(ctx, cfg, st, positionalArgs, out, errOut)
}

// reportFlagError prints a flag parsing error and returns the exit code.
func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 1 {
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", strings.TrimSpace(parts[1]))
			return exitcode.UserError
		}
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}

// openSettings opens the local settings database. If it cannot be opened
// the store falls back to in-memory settings for this run.
func openSettings(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Settings, func()) {
	if err := cfg.EnsureDir(); err != nil {
		log.Warn("create config directory", zap.Error(err))
		return store.NewMemorySettings(), func() {}
	}
	db, err := localstore.Open(ctx, cfg.SettingsPath())
	if err != nil {
		log.Warn("open settings database", zap.String("path", cfg.SettingsPath()), zap.Error(err))
		return store.NewMemorySettings(), func() {}
	}
	return db, func() {
		if err := db.Close(); err != nil {
			log.Warn("close settings database", zap.Error(err))
		}
	}
}

// newLogger returns a console logger on errOut. Only warnings are shown
// unless debug is set.
func newLogger(debug bool, errOut io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(errOut), level)
	return zap.New(core)
}
