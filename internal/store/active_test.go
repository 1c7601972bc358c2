// ABOUTME: Tests for the active-session singleton slot.
// ABOUTME: Verifies at-most-one instance and wholesale replacement on write.
package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/liftlog/liftlog/internal/models"
)

func TestActiveSessionEmptySlot(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.ActiveSession(context.Background())
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for empty slot, got %+v", got)
	}
}

func TestPutActiveSessionReplacesWholesale(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	plans := []*models.WorkoutPlan{
		models.NewWorkoutPlan("monday", uuid.New(), "Squat", 0),
		models.NewWorkoutPlan("monday", uuid.New(), "Bench Press", 1),
	}
	first := models.NewActiveSession("monday", plans)
	if err := s.PutActiveSession(ctx, first); err != nil {
		t.Fatalf("PutActiveSession failed: %v", err)
	}

	// Mutate and write back; the slot holds the full new record.
	first.Exercises[0].Completed = true
	reps := 8
	first.Exercises[0].Sets = append(first.Exercises[0].Sets, models.SessionSet{Reps: &reps})
	if err := s.PutActiveSession(ctx, first); err != nil {
		t.Fatalf("second PutActiveSession failed: %v", err)
	}

	got, err := s.ActiveSession(ctx)
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a session in the slot")
	}
	if !got.Exercises[0].Completed {
		t.Error("Expected completed flag to persist")
	}
	if len(got.Exercises[0].Sets) != 1 || *got.Exercises[0].Sets[0].Reps != 8 {
		t.Errorf("Expected recorded set to persist, got %+v", got.Exercises[0].Sets)
	}

	// Replacing with a different day's session leaves exactly one record.
	replacement := models.NewActiveSession("tuesday", nil)
	if err := s.PutActiveSession(ctx, replacement); err != nil {
		t.Fatalf("replacement PutActiveSession failed: %v", err)
	}

	got, err = s.ActiveSession(ctx)
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if got.DayOfWeek != "tuesday" {
		t.Errorf("Expected replacement session, got day %q", got.DayOfWeek)
	}
	if got.LocalID != replacement.LocalID {
		t.Error("Expected the replacement session's identity")
	}
}

func TestClearActiveSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := models.NewActiveSession("wednesday", nil)
	if err := s.PutActiveSession(ctx, session); err != nil {
		t.Fatalf("PutActiveSession failed: %v", err)
	}

	if err := s.ClearActiveSession(ctx); err != nil {
		t.Fatalf("ClearActiveSession failed: %v", err)
	}
	got, err := s.ActiveSession(ctx)
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected empty slot after clear, got %+v", got)
	}

	// Clearing an empty slot is a no-op.
	if err := s.ClearActiveSession(ctx); err != nil {
		t.Errorf("ClearActiveSession on empty slot should be a no-op, got %v", err)
	}
}
