// ABOUTME: Plan commands: add, list, and delete per-day workout plans.
// ABOUTME: Writes land locally first, then a mutation is queued for sync.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/liftlog/liftlog/internal/models"
	sq "github.com/liftlog/liftlog/internal/sync"
)

var (
	planSets     int
	planReps     int
	planWeight   float64
	planDuration int
	planDistance float64
	planOrder    int
	planNotes    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage per-day workout plans",
}

var planAddCmd = &cobra.Command{
	Use:   "add <day> <exercise-id>",
	Short: "Add an exercise to a day's plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day := args[0]

		exerciseID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid exercise ID: %w", err)
		}

		exercise, err := db.GetExercise(ctx, exerciseID)
		if err != nil {
			return fmt.Errorf("exercise lookup: %w", err)
		}

		plan := models.NewWorkoutPlan(day, exercise.ID, exercise.Name, planOrder)
		plan.UserID = cfg.UserID
		if cmd.Flags().Changed("sets") {
			plan.Sets = &planSets
		}
		if cmd.Flags().Changed("reps") {
			plan.Reps = &planReps
		}
		if cmd.Flags().Changed("weight") {
			plan.WeightKg = &planWeight
		}
		if cmd.Flags().Changed("duration") {
			plan.DurationMinutes = &planDuration
		}
		if cmd.Flags().Changed("distance") {
			plan.DistanceKm = &planDistance
		}
		if planNotes != "" {
			plan.Notes = &planNotes
		}

		// Validation failures surface immediately and are never queued.
		if err := plan.Validate(); err != nil {
			return err
		}

		if err := db.UpsertPlan(ctx, plan); err != nil {
			return err
		}
		if _, err := db.Enqueue(ctx, sq.TablePlans, models.ActionInsert, plan); err != nil {
			return err
		}

		color.Green("✓ Added %s to %s (order %d)", exercise.Name, day, plan.OrderIndex)
		fmt.Println("Saved locally, will sync when online.")
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list <day>",
	Short: "List a day's plan in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := args[0]
		if !models.IsValidDay(day) {
			return fmt.Errorf("%w: invalid day_of_week %q", models.ErrValidation, day)
		}

		plans, err := db.PlansByDay(cmd.Context(), day)
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			fmt.Printf("No plans for %s.\n", day)
			return nil
		}

		for _, p := range plans {
			line := fmt.Sprintf("%2d. %s", p.OrderIndex, p.ExerciseName)
			if p.Sets != nil && p.Reps != nil {
				line += fmt.Sprintf("  %dx%d", *p.Sets, *p.Reps)
			}
			if p.WeightKg != nil {
				line += fmt.Sprintf(" @ %.1fkg", *p.WeightKg)
			}
			if p.DurationMinutes != nil {
				line += fmt.Sprintf("  %dmin", *p.DurationMinutes)
			}
			fmt.Printf("%s  %s\n", line, color.New(color.Faint).Sprint(p.ID.String()[:8]))
		}
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a plan entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid plan ID: %w", err)
		}

		if err := db.DeletePlan(ctx, id); err != nil {
			return err
		}
		payload := map[string]string{"id": id.String()}
		if _, err := db.Enqueue(ctx, sq.TablePlans, models.ActionDelete, payload); err != nil {
			return err
		}

		color.Green("✓ Plan deleted")
		return nil
	},
}

func init() {
	planAddCmd.Flags().IntVar(&planSets, "sets", 0, "target sets")
	planAddCmd.Flags().IntVar(&planReps, "reps", 0, "target reps")
	planAddCmd.Flags().Float64Var(&planWeight, "weight", 0, "target weight in kg")
	planAddCmd.Flags().IntVar(&planDuration, "duration", 0, "target duration in minutes")
	planAddCmd.Flags().Float64Var(&planDistance, "distance", 0, "target distance in km")
	planAddCmd.Flags().IntVar(&planOrder, "order", 0, "position within the day")
	planAddCmd.Flags().StringVar(&planNotes, "notes", "", "notes")

	planCmd.AddCommand(planAddCmd, planListCmd, planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
