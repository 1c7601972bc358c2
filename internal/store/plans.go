// ABOUTME: Workout plan operations for the local store.
// ABOUTME: Plans upsert field-by-field so partial edits keep unsynced local fields.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/liftlog/liftlog/internal/models"
)

// UpsertPlan inserts a plan or merges changed fields into the existing row.
// Optional target fields left nil on the incoming record keep their
// stored values rather than being blanked.
func (s *Store) UpsertPlan(ctx context.Context, p *models.WorkoutPlan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (id, user_id, day_of_week, exercise_id, exercise_name,
			sets, reps, weight_kg, duration_minutes, distance_km, order_index, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = CASE WHEN excluded.user_id != '' THEN excluded.user_id ELSE plans.user_id END,
			day_of_week = excluded.day_of_week,
			exercise_id = excluded.exercise_id,
			exercise_name = excluded.exercise_name,
			sets = COALESCE(excluded.sets, plans.sets),
			reps = COALESCE(excluded.reps, plans.reps),
			weight_kg = COALESCE(excluded.weight_kg, plans.weight_kg),
			duration_minutes = COALESCE(excluded.duration_minutes, plans.duration_minutes),
			distance_km = COALESCE(excluded.distance_km, plans.distance_km),
			order_index = excluded.order_index,
			notes = COALESCE(excluded.notes, plans.notes)`,
		p.ID.String(), p.UserID, p.DayOfWeek, p.ExerciseID.String(), p.ExerciseName,
		p.Sets, p.Reps, p.WeightKg, p.DurationMinutes, p.DistanceKm,
		p.OrderIndex, p.Notes, p.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

// PlansByDay retrieves all plans for a day, ordered by order_index.
// A day with no entries returns an empty slice, never an error.
func (s *Store) PlansByDay(ctx context.Context, day string) ([]*models.WorkoutPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, day_of_week, exercise_id, exercise_name,
			sets, reps, weight_kg, duration_minutes, distance_km, order_index, notes, created_at
		FROM plans
		WHERE day_of_week = ?
		ORDER BY order_index ASC`, day)
	if err != nil {
		return nil, fmt.Errorf("plans by day: %w", err)
	}
	defer rows.Close()
	return scanPlans(rows)
}

// GetPlan retrieves a plan by ID.
func (s *Store) GetPlan(ctx context.Context, id uuid.UUID) (*models.WorkoutPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, day_of_week, exercise_id, exercise_name,
			sets, reps, weight_kg, duration_minutes, distance_km, order_index, notes, created_at
		FROM plans WHERE id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	defer rows.Close()

	plans, err := scanPlans(rows)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("not found: %s", id)
	}
	return plans[0], nil
}

// DeletePlan removes a plan by ID.
func (s *Store) DeletePlan(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", id)
	}
	return nil
}

// BindPlanOwner stamps the given user onto every plan with no owner.
// Rows that already carry an owner are never touched.
func (s *Store) BindPlanOwner(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE plans SET user_id = ? WHERE user_id = ''`, userID)
	if err != nil {
		return 0, fmt.Errorf("bind plan owner: %w", err)
	}
	return result.RowsAffected()
}

// PlanOwnerConflicts counts plans owned by a different user. The binder
// logs these as a data-integrity signal; it never resolves them.
func (s *Store) PlanOwnerConflicts(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plans WHERE user_id != '' AND user_id != ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("plan owner conflicts: %w", err)
	}
	return n, nil
}

func scanPlans(rows rowsScanner) ([]*models.WorkoutPlan, error) {
	var plans []*models.WorkoutPlan
	for rows.Next() {
		var p models.WorkoutPlan
		var idStr, exerciseIDStr, createdAt string

		err := rows.Scan(&idStr, &p.UserID, &p.DayOfWeek, &exerciseIDStr, &p.ExerciseName,
			&p.Sets, &p.Reps, &p.WeightKg, &p.DurationMinutes, &p.DistanceKm,
			&p.OrderIndex, &p.Notes, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}

		p.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid plan ID in database: %w", err)
		}
		p.ExerciseID, err = uuid.Parse(exerciseIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid exercise ID in database: %w", err)
		}
		p.CreatedAt = parseStoredTime(createdAt)

		plans = append(plans, &p)
	}
	return plans, rows.Err()
}
