// ABOUTME: Exercise catalog operations for the local store.
// ABOUTME: Catalog rows are replaced from remote pulls; favorite flags survive the clear.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/liftlog/liftlog/internal/models"
)

// UpsertExercises replaces or inserts catalog records by key.
func (s *Store) UpsertExercises(ctx context.Context, exercises []*models.Exercise) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert exercises: %w: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	for _, e := range exercises {
		if err := upsertExerciseTx(ctx, tx, e); err != nil {
			return fmt.Errorf("upsert exercise %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert exercises: %w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// ReplaceCatalog clears the exercise table and bulk-inserts the given
// records. Locally-set favorite flags are re-applied across the clear.
func (s *Store) ReplaceCatalog(ctx context.Context, exercises []*models.Exercise) error {
	favorites, err := s.FavoriteIDs(ctx)
	if err != nil {
		return err
	}
	favSet := make(map[string]bool, len(favorites))
	for _, id := range favorites {
		favSet[id.String()] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace catalog: %w: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	for _, e := range exercises {
		if favSet[e.ID.String()] {
			e.IsFavorite = true
		}
		if err := upsertExerciseTx(ctx, tx, e); err != nil {
			return fmt.Errorf("insert exercise %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace catalog: %w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func upsertExerciseTx(ctx context.Context, tx *sql.Tx, e *models.Exercise) error {
	muscles, err := json.Marshal(e.Muscles)
	if err != nil {
		return fmt.Errorf("marshal muscles: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO exercises (id, name, category, muscles, equipment,
			has_reps, has_weight, has_time, has_distance, has_floors, has_steps,
			calories_per_minute, image_url, video_url, is_favorite)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			muscles = excluded.muscles,
			equipment = excluded.equipment,
			has_reps = excluded.has_reps,
			has_weight = excluded.has_weight,
			has_time = excluded.has_time,
			has_distance = excluded.has_distance,
			has_floors = excluded.has_floors,
			has_steps = excluded.has_steps,
			calories_per_minute = excluded.calories_per_minute,
			image_url = excluded.image_url,
			video_url = excluded.video_url`,
		e.ID.String(), e.Name, string(e.Category), string(muscles), e.Equipment,
		e.HasReps, e.HasWeight, e.HasTime, e.HasDistance, e.HasFloors, e.HasSteps,
		e.CaloriesPerMinute, e.ImageURL, e.VideoURL, e.IsFavorite,
	)
	return err
}

// GetExercise retrieves a catalog entry by ID.
func (s *Store) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, muscles, equipment,
			has_reps, has_weight, has_time, has_distance, has_floors, has_steps,
			calories_per_minute, image_url, video_url, is_favorite
		FROM exercises WHERE id = ?`, id.String())
	return scanExercise(row)
}

// ListExercises retrieves catalog entries, optionally filtered by category.
// Results are ordered by name for stable display.
func (s *Store) ListExercises(ctx context.Context, category *models.Category) ([]*models.Exercise, error) {
	query := `
		SELECT id, name, category, muscles, equipment,
			has_reps, has_weight, has_time, has_distance, has_floors, has_steps,
			calories_per_minute, image_url, video_url, is_favorite
		FROM exercises`
	var args []interface{}
	if category != nil {
		query += ` WHERE category = ?`
		args = append(args, string(*category))
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*models.Exercise
	for rows.Next() {
		e, err := scanExerciseRows(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// SetFavorite flips the per-user favorite flag on a catalog entry.
// The change is visible on the local read path immediately, before any
// remote confirmation.
func (s *Store) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE exercises SET is_favorite = ? WHERE id = ?`, favorite, id.String())
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", id)
	}
	return nil
}

// FavoriteIDs returns the IDs of all locally-favorited exercises.
func (s *Store) FavoriteIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM exercises WHERE is_favorite = 1`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid exercise ID in database: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type exerciseScanner interface {
	Scan(dest ...interface{}) error
}

func scanExercise(row *sql.Row) (*models.Exercise, error) {
	e, err := scanExerciseFrom(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("not found")
	}
	return e, err
}

func scanExerciseRows(rows *sql.Rows) (*models.Exercise, error) {
	return scanExerciseFrom(rows)
}

func scanExerciseFrom(sc exerciseScanner) (*models.Exercise, error) {
	var e models.Exercise
	var idStr, category string
	var muscles, equipment sql.NullString

	err := sc.Scan(&idStr, &e.Name, &category, &muscles, &equipment,
		&e.HasReps, &e.HasWeight, &e.HasTime, &e.HasDistance, &e.HasFloors, &e.HasSteps,
		&e.CaloriesPerMinute, &e.ImageURL, &e.VideoURL, &e.IsFavorite)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	e.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid exercise ID in database: %w", err)
	}
	e.Category = models.Category(category)
	if muscles.Valid && muscles.String != "" && muscles.String != "null" {
		if err := json.Unmarshal([]byte(muscles.String), &e.Muscles); err != nil {
			return nil, fmt.Errorf("unmarshal muscles: %w", err)
		}
	}
	if equipment.Valid {
		e.Equipment = equipment.String
	}

	return &e, nil
}
