// ABOUTME: Root Cobra command for liftlog CLI.
// ABOUTME: Opens the single per-process store and wires the sync core into commands.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/liftlog/liftlog/internal/config"
	"github.com/liftlog/liftlog/internal/remote"
	"github.com/liftlog/liftlog/internal/store"
)

// Shared per-invocation state. The store is opened once in the
// persistent pre-run and injected everywhere; there is no other handle.
var (
	cfg    *config.Config
	db     *store.Store
	svc    remote.Service
	logger zerolog.Logger
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Offline-first workout tracker",
	Long: `Liftlog is a workout tracker built around an offline-first local store.

Every write lands in the on-device database first and is queued for sync;
the queue drains against the remote service whenever connectivity allows.
Working offline is the normal case, not an error.

QUICK START:

  $ liftlog catalog refresh                  # Pull the exercise catalog
  $ liftlog plan add monday <exercise-id>    # Plan an exercise for Monday
  $ liftlog start monday                     # Start Monday's workout
  $ liftlog log 0 --reps 10 --weight 60      # Record a set
  $ liftlog finish                           # Finalize into history

SYNC:

  $ liftlog login          # Sign in and bind local records to your user
  $ liftlog pull           # Refresh local caches from the remote service
  $ liftlog sync now       # Drain the mutation queue once
  $ liftlog sync status    # Queue counts: pending / synced / dead
  $ liftlog sync watch     # Periodic drain + drain on reconnect`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		db, err = cfg.OpenStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		svc = remote.NewClient(cfg.ServerURL, cfg.APIKey, nil, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// online probes the configured server. Used to gate drain cycles.
func online() bool {
	if cfg.ServerURL == "" {
		return false
	}
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Head(cfg.ServerURL)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
