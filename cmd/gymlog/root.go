// ABOUTME: Root Cobra command for gymlog CLI.
// ABOUTME: Opens the database, backup store, and engine services via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/backup"
	"github.com/harperreed/gymlog/internal/config"
	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/records"
	"github.com/harperreed/gymlog/internal/schedule"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/harperreed/gymlog/internal/stats"
	"github.com/harperreed/gymlog/internal/storage"
)

var (
	dbPath string

	cfg       *config.Config
	db        *storage.DB
	backups   *backup.Store
	scheduler *schedule.Service
	sessions  *session.Manager
	tracker   *records.Tracker
	keeper    *stats.Keeper
)

var rootCmd = &cobra.Command{
	Use:   "gymlog",
	Short: "Weekly training schedule and workout log",
	Long: `Gymlog plans your training week from a program and logs the sessions you do.

QUICK START:

  $ gymlog program import push-pull.json     # Load a weekly program
  $ gymlog schedule generate                 # Plan this week
  $ gymlog schedule week                     # See the plan
  $ gymlog session start                     # Start today's workout
  $ gymlog session log <session> <slot> --reps 5 --load 80
  $ gymlog session finish <session> --performance 4 --energy 4 --mind-muscle 3

SCHEDULE EDITS:

  $ gymlog schedule skip 2026-02-25          # Skip a day
  $ gymlog schedule shift 2026-02-25         # Do Wednesday's workout today
  $ gymlog schedule rest 2026-02-25          # Swap a workout onto a rest day

RECORDS AND STATS:

  Finishing a session updates personal records (heaviest working set per
  exercise) and lifetime totals. Corrections to finished sessions are made
  with 'session set-update' / 'session set-delete' and saved with
  'session save'.

IDS:

  Every id can be given in full or by the short suffix the CLI prints.

MCP INTEGRATION:

  Run 'gymlog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "gymlog": { "command": "gymlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  The database lives at $XDG_DATA_HOME/gymlog/gymlog.db unless --db or the
  data_dir config setting says otherwise. Session backups are kept in a
  badger store in the backups directory next to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return openStores(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStores()
	},
}

func openStores(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.GetLogLevel(), os.Stderr)

	path := cfg.DBPath()
	backupDir := cfg.BackupDir()
	if dbPath != "" {
		path = config.ExpandPath(dbPath)
		backupDir = filepath.Join(filepath.Dir(path), "backups")
	}

	db, err = storage.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.EnsureDefaults(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	var snapshots session.Snapshotter
	if cfg.BackupsEnabled() {
		backups, err = backup.Open(backupDir)
		if err != nil {
			// Backups are best-effort.
			color.Yellow("⚠ Backups disabled: %v", err)
			backups = nil
		} else {
			snapshots = backups
		}
	}

	tracker = records.NewTracker()
	keeper = stats.NewKeeper()
	scheduler = schedule.NewService(db, db, db)
	sessions = session.NewManager(db, tracker, keeper, snapshots)
	return nil
}

func closeStores() error {
	var firstErr error
	if backups != nil {
		if err := backups.Close(); err != nil {
			firstErr = err
		}
		backups = nil
	}
	if db != nil {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		db = nil
	}
	return firstErr
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $XDG_DATA_HOME/gymlog/gymlog.db)")
}
