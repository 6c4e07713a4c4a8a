// Command menud serves the restaurant menu API and manages its store.
package main

import (
	"context"
	"fmt"
	"os"

	"menud/internal/config"
	"menud/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds state shared by every subcommand
type app struct {
	configPath string
	verbose    bool
	driver     string
	dbPath     string
	dsn        string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "menud",
		Short: "Restaurant menu item service",
		Long: `menud stores menu items and serves them over HTTP, either one at a
time or grouped by serving section ("Lunch Specials", "Dinner Specials").`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: search standard locations)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.driver, "driver", "", "database driver: sqlite or postgres")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database path")
	flags.StringVar(&a.dsn, "dsn", "", "PostgreSQL connection string")

	root.AddCommand(a.serveCmd(), a.importCmd(), a.exportCmd())
	return root
}

// init loads configuration in layers (file, .env and environment, flags)
// and builds the logger
func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, _, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Database.Driver = a.driver
	}
	if flags.Changed("db") {
		cfg.Database.Path = a.dbPath
	}
	if flags.Changed("dsn") {
		cfg.Database.DSN = a.dsn
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// openStore opens the configured repository
func (a *app) openStore(ctx context.Context, reset bool) (repository.Repository, error) {
	db := a.cfg.Database
	repo, err := repository.Open(ctx, repository.Options{
		Driver: db.Driver,
		Path:   db.Path,
		DSN:    db.DSN,
		Reset:  reset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if reset {
		a.logger.Warn("Store reset", zap.String("driver", db.Driver))
	}
	return repo, nil
}
