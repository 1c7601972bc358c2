// ABOUTME: Sync commands: login, drain now, queue status, and the watch loop.
// ABOUTME: Login binds ownership before the first drain so queued mutations carry the user.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/liftlog/liftlog/internal/models"
	sq "github.com/liftlog/liftlog/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync queued mutations with the remote service",
	Long: `Sync queued mutations with the remote service.

Every local write is queued durably. Draining attempts items oldest
first; a failed item stays pending and is retried on the next cycle
without blocking the items behind it.

COMMANDS:

  now       Run one drain cycle
  status    Show queue counts (pending / synced / dead)
  watch     Drain every interval and immediately on reconnect`,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Run one drain cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		processor := sq.NewProcessor(db, svc, online, cfg.MaxAttempts, logger)
		res, err := processor.Drain(cmd.Context())
		if err != nil {
			return err
		}
		if res.Skipped {
			color.Yellow("Offline, nothing attempted. Changes are saved locally.")
			return nil
		}
		color.Green("✓ Drained: %d synced, %d still pending, %d quarantined",
			res.Synced, res.Failed, res.Dead)
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show queue counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := db.CountByStatus(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("pending: %d\n", counts["pending"])
		fmt.Printf("synced:  %d\n", counts["synced"])
		if counts["dead"] > 0 {
			color.Red("dead:    %d (quarantined after repeated failures)", counts["dead"])
		}
		if online() {
			color.Green("server reachable")
		} else {
			color.Yellow("offline")
		}
		return nil
	},
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Drain periodically and immediately on reconnect",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		processor := sq.NewProcessor(db, svc, online, cfg.MaxAttempts, logger)
		monitor := sq.NewPollMonitor(online, 5*time.Second)
		scheduler := sq.NewScheduler(processor, monitor, cfg.SyncInterval(), logger)

		go monitor.Run(ctx)

		fmt.Printf("Watching; draining every %s. Ctrl-C to stop.\n", cfg.SyncInterval())
		scheduler.Run(ctx)
		return nil
	},
}

// refreshCaches pulls every local cache the signed-in state allows:
// the catalog, each day's plans, and (with a user) history and metrics.
func refreshCaches(ctx context.Context) error {
	populator := sq.NewPopulator(db, svc, logger)

	if err := populator.RefreshCatalog(ctx); err != nil {
		return err
	}
	for _, day := range models.DaysOfWeek {
		if err := populator.RefreshPlans(ctx, day); err != nil {
			return err
		}
	}
	if cfg.UserID != "" {
		if err := populator.RefreshHistory(ctx, cfg.UserID); err != nil {
			return err
		}
		if err := populator.RefreshMetrics(ctx, cfg.UserID); err != nil {
			return err
		}
	}
	return nil
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Refresh local caches from the remote service",
	Long: `Refresh local caches from the remote service.

Pulls the exercise catalog, each day's plans, and (when signed in) the
workout history and body metrics. Records with unresolved queued
mutations are left untouched; a failed pull leaves the stale cache in
place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := refreshCaches(cmd.Context()); err != nil {
			return err
		}
		color.Green("✓ Local caches refreshed")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and bind local records to your user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		userID, err := svc.CurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		cfg.UserID = userID
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		// Bind before the first drain so queued mutations carry ownership.
		binder := sq.NewBinder(db, logger)
		res, err := binder.Bind(ctx, userID)
		if err != nil {
			return err
		}
		color.Green("✓ Signed in as %s", userID)
		fmt.Printf("Bound %d plans and %d sessions.\n", res.Plans, res.Sessions)
		if res.Conflicts > 0 {
			color.Yellow("⚠ %d records belong to a different user and were left untouched.", res.Conflicts)
		}

		processor := sq.NewProcessor(db, svc, online, cfg.MaxAttempts, logger)
		if _, err := processor.Drain(ctx); err != nil {
			logger.Warn().Err(err).Msg("post-login drain failed")
		}

		// Cold-start pull: the drained queue can no longer shadow remote
		// rows, so the caches refresh cleanly.
		if err := refreshCaches(ctx); err != nil {
			logger.Warn().Err(err).Msg("post-login refresh failed")
		}
		return nil
	},
}

var metricsSetCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Update body metrics used for calorie estimates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := db.UserMetrics(ctx, cfg.UserID)
		if err != nil {
			return err
		}
		if m == nil {
			m = &models.UserMetrics{}
		}
		m.UserID = cfg.UserID
		if cmd.Flags().Changed("weight") {
			m.WeightKg = metricsWeight
		}
		if cmd.Flags().Changed("height") {
			m.HeightCm = metricsHeight
		}
		if cmd.Flags().Changed("age") {
			m.Age = metricsAge
		}
		m.UpdatedAt = time.Now()

		if err := db.PutUserMetrics(ctx, m); err != nil {
			return err
		}
		payload := map[string]interface{}{
			"id":             cfg.UserID, // metrics row is keyed by user
			"user_id":        cfg.UserID,
			"weight_kg":      m.WeightKg,
			"height_cm":      m.HeightCm,
			"age":            m.Age,
			"activity_level": m.ActivityLevel,
			"goal":           m.Goal,
		}
		if _, err := db.Enqueue(ctx, sq.TableMetrics, models.ActionInsert, payload); err != nil {
			return err
		}

		color.Green("✓ Metrics saved")
		fmt.Println("Saved locally, will sync when online.")
		return nil
	},
}

var (
	metricsWeight float64
	metricsHeight float64
	metricsAge    int
)

func init() {
	metricsSetCmd.Flags().Float64Var(&metricsWeight, "weight", 0, "weight in kg")
	metricsSetCmd.Flags().Float64Var(&metricsHeight, "height", 0, "height in cm")
	metricsSetCmd.Flags().IntVar(&metricsAge, "age", 0, "age in years")

	syncCmd.AddCommand(syncNowCmd, syncStatusCmd, syncWatchCmd)
	rootCmd.AddCommand(syncCmd, loginCmd, pullCmd, metricsSetCmd)
}
