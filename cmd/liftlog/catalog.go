// ABOUTME: Catalog commands: refresh from remote, list, and favorite exercises.
// ABOUTME: The catalog is remote-authoritative; favorites are local-first and queued.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/liftlog/liftlog/internal/models"
	sq "github.com/liftlog/liftlog/internal/sync"
)

var catalogCategory string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse and refresh the exercise catalog",
}

var catalogRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Pull the exercise catalog from the remote service",
	RunE: func(cmd *cobra.Command, args []string) error {
		populator := sq.NewPopulator(db, svc, logger)
		if err := populator.RefreshCatalog(cmd.Context()); err != nil {
			return err
		}
		color.Green("✓ Catalog refreshed")
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		var category *models.Category
		if catalogCategory != "" {
			if !models.IsValidCategory(catalogCategory) {
				return fmt.Errorf("%w: invalid category %q", models.ErrValidation, catalogCategory)
			}
			c := models.Category(catalogCategory)
			category = &c
		}

		exercises, err := db.ListExercises(cmd.Context(), category)
		if err != nil {
			return err
		}
		if len(exercises) == 0 {
			fmt.Println("Catalog is empty. Run 'liftlog catalog refresh' while online.")
			return nil
		}

		for _, e := range exercises {
			star := " "
			if e.IsFavorite {
				star = color.YellowString("★")
			}
			fmt.Printf("%s %-30s %-12s %s\n", star, e.Name, e.Category,
				color.New(color.Faint).Sprint(e.ID.String()[:8]))
		}
		return nil
	},
}

var favCmd = &cobra.Command{
	Use:   "fav <exercise-id>",
	Short: "Toggle an exercise's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid exercise ID: %w", err)
		}

		exercise, err := db.GetExercise(ctx, id)
		if err != nil {
			return err
		}

		// Flip locally first; the read path reflects it immediately.
		next := !exercise.IsFavorite
		if err := db.SetFavorite(ctx, id, next); err != nil {
			return err
		}

		payload := map[string]interface{}{
			"id":          favoriteID(cfg.UserID, id).String(),
			"user_id":     cfg.UserID,
			"exercise_id": id.String(),
			"favorite":    next,
		}
		if _, err := db.Enqueue(ctx, sq.TableFavorites, models.ActionInsert, payload); err != nil {
			return err
		}

		if next {
			color.Green("✓ %s favorited", exercise.Name)
		} else {
			fmt.Printf("%s unfavorited\n", exercise.Name)
		}
		return nil
	},
}

// favoriteID derives a stable id for a (user, exercise) favorite row.
// Every toggle upserts the same remote record instead of stacking a new
// row per toggle.
func favoriteID(userID string, exerciseID uuid.UUID) uuid.UUID {
	name := "liftlog://favorites/" + userID + "/" + exerciseID.String()
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
}

func init() {
	catalogListCmd.Flags().StringVar(&catalogCategory, "category", "", "filter by category")
	catalogCmd.AddCommand(catalogRefreshCmd, catalogListCmd)
	rootCmd.AddCommand(catalogCmd, favCmd)
}
