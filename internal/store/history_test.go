// ABOUTME: Tests for workout history operations.
// ABOUTME: Covers upsert-by-key, user-scoped listing, and owner binding.
package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/liftlog/liftlog/internal/models"
)

func testSession(userID, day, date string) *models.WorkoutSession {
	started, _ := time.Parse("2006-01-02", date)
	return &models.WorkoutSession{
		ID:                   uuid.New(),
		UserID:               userID,
		DayOfWeek:            day,
		Date:                 date,
		StartedAt:            started,
		EndedAt:              started.Add(45 * time.Minute),
		Status:               models.SessionCompleted,
		TotalDurationMinutes: 45,
		TotalCalories:        300,
		Exercises: []models.SessionExercise{
			{ExerciseID: uuid.New(), ExerciseName: "Squat", Completed: true},
		},
	}
}

func TestUpsertAndGetSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	w := testSession("U1", "monday", "2024-01-01")
	if err := s.UpsertSession(ctx, w); err != nil {
		t.Fatalf("UpsertSession failed: %v", err)
	}

	got, err := s.GetSession(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Date != "2024-01-01" || got.TotalCalories != 300 {
		t.Errorf("Session mismatch: %+v", got)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].ExerciseName != "Squat" {
		t.Errorf("Exercises mismatch: %+v", got.Exercises)
	}
}

func TestUpsertSessionEditsReuseUpsertPath(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	w := testSession("U1", "monday", "2024-01-01")
	if err := s.UpsertSession(ctx, w); err != nil {
		t.Fatalf("UpsertSession failed: %v", err)
	}

	w.TotalCalories = 350
	if err := s.UpsertSession(ctx, w); err != nil {
		t.Fatalf("edit UpsertSession failed: %v", err)
	}

	sessions, err := s.ListSessions(ctx, "U1", 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("Edit must not duplicate the row, got %d", len(sessions))
	}
	if sessions[0].TotalCalories != 350 {
		t.Errorf("Expected edited calories, got %v", sessions[0].TotalCalories)
	}
}

func TestListSessionsMostRecentFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	older := testSession("U1", "monday", "2024-01-01")
	newer := testSession("U1", "wednesday", "2024-01-03")
	foreign := testSession("U2", "monday", "2024-01-02")
	for _, w := range []*models.WorkoutSession{older, newer, foreign} {
		if err := s.UpsertSession(ctx, w); err != nil {
			t.Fatalf("UpsertSession failed: %v", err)
		}
	}

	sessions, err := s.ListSessions(ctx, "U1", 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions for U1, got %d", len(sessions))
	}
	if sessions[0].ID != newer.ID {
		t.Error("Expected most recent session first")
	}
}

func TestDeleteSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	w := testSession("U1", "friday", "2024-02-01")
	if err := s.UpsertSession(ctx, w); err != nil {
		t.Fatalf("UpsertSession failed: %v", err)
	}
	if err := s.DeleteSession(ctx, w.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if err := s.DeleteSession(ctx, w.ID); err == nil {
		t.Error("Expected error deleting missing session")
	}
}

func TestBindSessionOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	owned := testSession("U1", "monday", "2024-01-01")
	anonymous := testSession("", "tuesday", "2024-01-02")
	for _, w := range []*models.WorkoutSession{owned, anonymous} {
		if err := s.UpsertSession(ctx, w); err != nil {
			t.Fatalf("UpsertSession failed: %v", err)
		}
	}

	bound, err := s.BindSessionOwner(ctx, "U2")
	if err != nil {
		t.Fatalf("BindSessionOwner failed: %v", err)
	}
	if bound != 1 {
		t.Errorf("Expected 1 bound session, got %d", bound)
	}

	got, _ := s.GetSession(ctx, owned.ID)
	if got.UserID != "U1" {
		t.Errorf("Existing owner must not be overwritten, got %q", got.UserID)
	}
	got, _ = s.GetSession(ctx, anonymous.ID)
	if got.UserID != "U2" {
		t.Errorf("Anonymous session should be bound to U2, got %q", got.UserID)
	}
}
