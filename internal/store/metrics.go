// ABOUTME: UserMetrics cache operations for the local store.
// ABOUTME: The remote service is the source of truth; this is an offline copy.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/liftlog/liftlog/internal/models"
)

// PutUserMetrics inserts or replaces the cached metrics for a user.
func (s *Store) PutUserMetrics(ctx context.Context, m *models.UserMetrics) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_metrics (user_id, weight_kg, height_cm, age, gender,
			activity_level, goal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			age = excluded.age,
			gender = excluded.gender,
			activity_level = excluded.activity_level,
			goal = excluded.goal,
			updated_at = excluded.updated_at`,
		m.UserID, m.WeightKg, m.HeightCm, m.Age, m.Gender,
		m.ActivityLevel, m.Goal, m.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("put user metrics: %w", err)
	}
	return nil
}

// UserMetrics returns the cached metrics for a user, or nil when absent.
func (s *Store) UserMetrics(ctx context.Context, userID string) (*models.UserMetrics, error) {
	var m models.UserMetrics
	var gender, activityLevel, goal sql.NullString
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, weight_kg, height_cm, age, gender, activity_level, goal, updated_at
		FROM user_metrics WHERE user_id = ?`, userID).Scan(
		&m.UserID, &m.WeightKg, &m.HeightCm, &m.Age, &gender, &activityLevel, &goal, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user metrics: %w", err)
	}

	if gender.Valid {
		m.Gender = gender.String
	}
	if activityLevel.Valid {
		m.ActivityLevel = activityLevel.String
	}
	if goal.Valid {
		m.Goal = goal.String
	}
	m.UpdatedAt = parseStoredTime(updatedAt)

	return &m, nil
}
