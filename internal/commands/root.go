package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/balkashynov/todo/internal/config"
	"github.com/balkashynov/todo/internal/db"
	"github.com/balkashynov/todo/internal/logging"
	"github.com/balkashynov/todo/internal/todo"
	"github.com/balkashynov/todo/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "A local to-do list",
		Long: `todo keeps a list of things to do with a priority and a due date.
Tasks are stored in a database file on this machine and are not synced anywhere.

Run without a command to open the full-screen list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runUI,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default $TODO_HOME/config.toml or ~/.todo/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newDoneCmd())
	rootCmd.AddCommand(newUndoneCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newAboutCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.SetHelpCommand(newHelpCmd())
	return rootCmd
}

// app is everything a command needs, opened from the config
type app struct {
	cfg    config.Config
	logger *log.Logger
	store  *db.Store
	ctrl   *todo.Controller

	closers []io.Closer
}

// openApp loads the config, opens the database and loads every task into a
// controller that asks dialog before deleting. With logToFile the log goes to
// the configured file instead of stderr, for the full-screen UI.
func openApp(cmd *cobra.Command, dialog todo.Dialog, logToFile bool) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		p, err := config.ResolveConfigPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		configPath = p
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	opts := logging.DefaultOptions()
	if cfg.LogLevel != "" {
		opts.Level = cfg.LogLevel
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		opts.Level = lvl
	}
	if logToFile {
		logger, closer, err := logging.NewFile(cfg.LogFile, opts)
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.closers = append(a.closers, closer)
	} else {
		a.logger = logging.New(cmd.ErrOrStderr(), opts)
	}

	policy, err := db.ParseLoadPolicy(cfg.LoadPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}
	store, err := db.Open(cfg.DBPath, db.WithLoadPolicy(policy), db.WithLogger(a.logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, store)

	sortKey, err := todo.ParseSortKey(cfg.DefaultSort)
	if err != nil {
		a.logger.Warn("ignoring default_sort", "err", err)
	}
	dir, err := todo.ParseDirection(cfg.DefaultDirection)
	if err != nil {
		a.logger.Warn("ignoring default_direction", "err", err)
	}

	a.ctrl = todo.New(store, dialog, todo.WithLogger(a.logger), todo.WithSort(sortKey, dir))
	if err := a.ctrl.Load(contextOf(cmd)); err != nil {
		a.Close()
		return nil, err
	}
	if skipped := store.Skipped(); len(skipped) > 0 {
		a.logger.Warn("some stored todos could not be read and were skipped", "count", len(skipped))
	}
	return a, nil
}

// Close releases the database and log file
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the full-screen list",
		Args:  cobra.NoArgs,
		RunE:  runUI,
	}
}

func runUI(cmd *cobra.Command, _ []string) error {
	dialog := tui.NewModalDialog()
	a, err := openApp(cmd, dialog, true)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(contextOf(cmd), a.ctrl, dialog, tui.Options{Keys: a.cfg.Keys, Logger: a.logger})
}

// contextOf returns the command's context, which is nil when the command
// is executed without ExecuteContext.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
