// Package cli implements the habits command-line interface. Commands call
// into the habit store's operations and render its derived values; they
// never touch storage keys.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/internal/backend"
	"github.com/mesh-intelligence/habits/internal/habitstore"
	"github.com/mesh-intelligence/habits/internal/logging"
	"github.com/mesh-intelligence/habits/internal/paths"
	"github.com/mesh-intelligence/habits/pkg/habits"
	"github.com/mesh-intelligence/habits/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	date      string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by one CLI invocation.
type app struct {
	flags  rootFlags
	now    func() time.Time
	logger *zap.Logger
	kv     types.KV
	store  *habitstore.Store
}

// sysError marks failures of the environment (storage, config files) as
// opposed to bad input.
type sysError struct{ err error }

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemErr(err error) error {
	if err == nil {
		return nil
	}
	return &sysError{err: err}
}

// exitCode maps an Execute error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}

// NewRootCmd creates the top-level "habits" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "habits",
		Short:   "Track daily habits and streaks",
		Long:    "habits records which habits you completed each day, keeps\ncategories in order, and reports consecutive-day streaks.",
		Version: habits.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsStore(cmd) {
				return nil
			}
			return a.open(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/habits)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/habits)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "storage backend: file, sqlite, redis, memory")
	root.PersistentFlags().StringVar(&a.flags.date, "date", "", "day to act on, YYYY-MM-DD (default: today)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newToggleCmd(a))
	root.AddCommand(newStreakCmd(a))
	root.AddCommand(newCategoryCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))

	return root
}

// skipsStore reports whether cmd runs without opening storage up front.
// init opens it itself after writing the config file.
func skipsStore(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "init":
		return true
	}
	return false
}

// open resolves configuration, builds the logger, attaches the backend and
// loads the store. Malformed stored data fails here.
func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemErr(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return systemErr(err)
	}
	if a.flags.backend != "" {
		v.Set(cfgKeyBackend, a.flags.backend)
	}
	if a.flags.logLevel != "" {
		v.Set(cfgKeyLogLevel, a.flags.logLevel)
	}

	logger, err := logging.New(logConfig(v))
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	a.logger = logger

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return systemErr(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := storageConfig(v, dataDir)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	selected := ""
	if a.flags.date != "" {
		if _, err := types.ParseDate(a.flags.date); err != nil {
			return err
		}
		selected = a.flags.date
	}

	kv, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return systemErr(fmt.Errorf("open %s backend: %w", cfg.Backend, err))
	}
	a.kv = kv

	store, err := habitstore.Open(ctx, kv,
		habitstore.WithConfig(cfg),
		habitstore.WithLogger(logger.Named("store")),
		habitstore.WithClock(a.now),
	)
	if err != nil {
		return systemErr(fmt.Errorf("load state: %w", err))
	}
	if selected != "" {
		store.SetSelectedDate(selected)
	}
	a.store = store

	logger.Debug("store ready",
		zap.String("config_dir", configDir),
		zap.String("data_dir", dataDir),
		zap.String("selected_date", store.SelectedDate()),
	)
	return nil
}

// close flushes the store and releases the backend. Idempotent.
func (a *app) close() error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
		a.store = nil
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			errs = append(errs, err)
		}
		a.kv = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
		a.logger = nil
	}
	return systemErr(errors.Join(errs...))
}

// execute runs root with args and always releases resources.
func (a *app) execute(root *cobra.Command, args []string) error {
	root.SetArgs(args)
	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// Execute runs the CLI and exits with the appropriate code.
func Execute() {
	a := &app{now: time.Now}
	root := newRootCmd(a)
	err := a.execute(root, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "habits:", err)
	}
	os.Exit(exitCode(err))
}

// out returns the command's stdout writer.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
