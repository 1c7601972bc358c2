// ABOUTME: Workout history operations for the local store.
// ABOUTME: History rows are append-only from the sync perspective; edits reuse the upsert path.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/liftlog/liftlog/internal/models"
)

// UpsertSession inserts or replaces a history record by key.
func (s *Store) UpsertSession(ctx context.Context, w *models.WorkoutSession) error {
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return fmt.Errorf("marshal session exercises: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history (id, user_id, day_of_week, date, started_at, ended_at,
			status, total_duration_minutes, total_calories, exercises)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = CASE WHEN excluded.user_id != '' THEN excluded.user_id ELSE history.user_id END,
			day_of_week = excluded.day_of_week,
			date = excluded.date,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			status = excluded.status,
			total_duration_minutes = excluded.total_duration_minutes,
			total_calories = excluded.total_calories,
			exercises = excluded.exercises`,
		w.ID.String(), w.UserID, w.DayOfWeek, w.Date,
		w.StartedAt.UTC().Format(timeLayout), w.EndedAt.UTC().Format(timeLayout),
		w.Status, w.TotalDurationMinutes, w.TotalCalories, string(exercises),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// GetSession retrieves a history record by ID.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, day_of_week, date, started_at, ended_at,
			status, total_duration_minutes, total_calories, exercises
		FROM history WHERE id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("not found: %s", id)
	}
	return sessions[0], nil
}

// ListSessions retrieves history records, most recent date first.
// An empty userID returns records regardless of ownership.
func (s *Store) ListSessions(ctx context.Context, userID string, limit int) ([]*models.WorkoutSession, error) {
	query := `
		SELECT id, user_id, day_of_week, date, started_at, ended_at,
			status, total_duration_minutes, total_calories, exercises
		FROM history`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY date DESC, started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// DeleteSession removes a history record by ID.
func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", id)
	}
	return nil
}

// BindSessionOwner stamps the given user onto every history record with
// no owner. Rows that already carry an owner are never touched.
func (s *Store) BindSessionOwner(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE history SET user_id = ? WHERE user_id = ''`, userID)
	if err != nil {
		return 0, fmt.Errorf("bind session owner: %w", err)
	}
	return result.RowsAffected()
}

// SessionOwnerConflicts counts history records owned by a different user.
func (s *Store) SessionOwnerConflicts(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM history WHERE user_id != '' AND user_id != ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("session owner conflicts: %w", err)
	}
	return n, nil
}

func scanSessions(rows rowsScanner) ([]*models.WorkoutSession, error) {
	var sessions []*models.WorkoutSession
	for rows.Next() {
		var w models.WorkoutSession
		var idStr, startedAt, endedAt, exercises string

		err := rows.Scan(&idStr, &w.UserID, &w.DayOfWeek, &w.Date, &startedAt, &endedAt,
			&w.Status, &w.TotalDurationMinutes, &w.TotalCalories, &exercises)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}

		w.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid session ID in database: %w", err)
		}
		w.StartedAt = parseStoredTime(startedAt)
		w.EndedAt = parseStoredTime(endedAt)
		if err := json.Unmarshal([]byte(exercises), &w.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal session exercises: %w", err)
		}

		sessions = append(sessions, &w)
	}
	return sessions, rows.Err()
}
