package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/claude/logbook/internal/analytics"
	"github.com/claude/logbook/internal/config"
	"github.com/claude/logbook/internal/logbook"
	"github.com/claude/logbook/internal/logging"
	"github.com/claude/logbook/internal/program"
	"github.com/claude/logbook/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:           "logbook",
	Short:         "Workout logbook: sessions, PRs, suggestions and backups",
	Long:          `logbook records training sessions against a fixed program, tracks personal records and suggests the next set. It serves a JSON API and an MCP server, and runs maintenance tasks from the command line.`,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

var (
	configPath string
	envFile    string

	cfg       *config.Config
	log       *slog.Logger
	logCloser io.Closer
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("LOGBOOK_CONFIG"), "path to config file (empty: defaults and environment only)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded into the environment if present")
}

// setup loads the env file, config and logger. The mcp command logs to
// stderr because stdout carries the protocol.
func setup(cmd *cobra.Command) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if cmd.Name() == "mcp" {
		out = os.Stderr
	}
	log, logCloser = logging.New(cfg.Log, out)
	return nil
}

// app is an opened, migrated store with the service on top.
type app struct {
	db  *storage.DB
	svc *logbook.Service
}

func openApp(ctx context.Context) (*app, error) {
	catalog, err := program.Load(cfg.Program.Path)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DataSource())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		return nil, multierr.Append(fmt.Errorf("migrating: %w", err), db.Close())
	}
	log.Debug("database ready", "driver", db.Driver())

	engine := analytics.NewEngine(db, cfg.Cache.PRCacheBytes, log)
	return &app{db: db, svc: logbook.New(db, catalog, engine, log)}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// outputFile opens path for writing, or stdout for "-".
func outputFile(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
