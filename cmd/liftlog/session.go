// ABOUTME: Session commands: start, log progress against, and finish a workout.
// ABOUTME: The active session is a device singleton; finishing moves it into history.
package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/liftlog/liftlog/internal/models"
	sq "github.com/liftlog/liftlog/internal/sync"
)

var (
	logReps     int
	logWeight   float64
	logSeconds  int
	logDistance float64
	logComplete bool
	logSkip     bool
)

var startCmd = &cobra.Command{
	Use:   "start <day>",
	Short: "Start a workout from a day's plan",
	Long: `Start a workout session from the given day's plan snapshot.

If an unfinished session already exists for the same day it is resumed.
A session for a different day is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day := args[0]
		if !models.IsValidDay(day) {
			return fmt.Errorf("%w: invalid day_of_week %q", models.ErrValidation, day)
		}

		existing, err := db.ActiveSession(ctx)
		if err != nil {
			return err
		}
		if existing != nil && existing.DayOfWeek == day {
			color.Yellow("Resuming %s session started %s", day, existing.StartedAt.Format("15:04"))
			return nil
		}

		plans, err := db.PlansByDay(ctx, day)
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			return fmt.Errorf("no plan for %s, add exercises first", day)
		}

		session := models.NewActiveSession(day, plans)
		if err := db.PutActiveSession(ctx, session); err != nil {
			return err
		}

		color.Green("✓ Started %s workout (%d exercises)", day, len(session.Exercises))
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <exercise-index>",
	Short: "Record a set, or mark an exercise complete/skipped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		session, err := db.ActiveSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("no active session, run 'liftlog start <day>' first")
		}

		idx, err := strconv.Atoi(args[0])
		if err != nil || idx < 0 || idx >= len(session.Exercises) {
			return fmt.Errorf("exercise index out of range (0..%d)", len(session.Exercises)-1)
		}
		ex := &session.Exercises[idx]

		switch {
		case logSkip:
			ex.Skipped = true
			color.Yellow("Skipped %s", ex.ExerciseName)
		case logComplete:
			ex.Completed = true
			color.Green("✓ Completed %s", ex.ExerciseName)
		default:
			set := models.SessionSet{}
			if cmd.Flags().Changed("reps") {
				set.Reps = &logReps
			}
			if cmd.Flags().Changed("weight") {
				set.WeightKg = &logWeight
			}
			if cmd.Flags().Changed("seconds") {
				set.DurationSeconds = &logSeconds
			}
			if cmd.Flags().Changed("distance") {
				set.DistanceKm = &logDistance
			}
			ex.Sets = append(ex.Sets, set)
			color.Green("✓ Set %d recorded for %s", len(ex.Sets), ex.ExerciseName)
		}

		// Replaced wholesale on every write.
		return db.PutActiveSession(ctx, session)
	},
}

var finishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Finalize the active session into history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		session, err := db.ActiveSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("no active session to finish")
		}

		record := session.Finalize(cfg.UserID, sessionCaloriesPerMinute(ctx, session))
		if err := db.UpsertSession(ctx, record); err != nil {
			return err
		}
		if _, err := db.Enqueue(ctx, sq.TableHistory, models.ActionInsert, record); err != nil {
			return err
		}
		if err := db.ClearActiveSession(ctx); err != nil {
			return err
		}

		color.Green("✓ Workout saved: %d min, %.0f kcal", record.TotalDurationMinutes, record.TotalCalories)
		fmt.Println("Saved locally, will sync when online.")
		return nil
	},
}

// sessionCaloriesPerMinute averages the catalog estimate across the
// exercises actually worked in the session.
func sessionCaloriesPerMinute(ctx context.Context, session *models.ActiveSession) float64 {
	var total float64
	var n int
	for _, ex := range session.Exercises {
		if ex.Skipped {
			continue
		}
		catalog, err := db.GetExercise(ctx, ex.ExerciseID)
		if err != nil {
			continue
		}
		total += catalog.CaloriesPerMinute
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := db.ListSessions(cmd.Context(), cfg.UserID, 20)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No completed workouts yet.")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %-9s  %3d min  %5.0f kcal  %s\n",
				s.Date, s.DayOfWeek, s.TotalDurationMinutes, s.TotalCalories,
				color.New(color.Faint).Sprint(s.ID.String()[:8]))
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVar(&logReps, "reps", 0, "reps achieved")
	logCmd.Flags().Float64Var(&logWeight, "weight", 0, "weight used in kg")
	logCmd.Flags().IntVar(&logSeconds, "seconds", 0, "duration in seconds")
	logCmd.Flags().Float64Var(&logDistance, "distance", 0, "distance in km")
	logCmd.Flags().BoolVar(&logComplete, "complete", false, "mark exercise complete")
	logCmd.Flags().BoolVar(&logSkip, "skip", false, "mark exercise skipped")

	rootCmd.AddCommand(startCmd, logCmd, finishCmd, historyCmd)
}
