// ABOUTME: WorkoutPlan model for per-day planning with target metrics.
// ABOUTME: Validates day-of-week and required fields before any write is queued.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrValidation marks user-input failures. These surface immediately to
// the caller and are never queued for sync.
var ErrValidation = errors.New("validation error")

// DaysOfWeek holds the seven canonical lowercase day values, in replay order.
var DaysOfWeek = []string{
	"monday", "tuesday", "wednesday", "thursday",
	"friday", "saturday", "sunday",
}

// IsValidDay checks if a string is one of the seven canonical day values.
func IsValidDay(s string) bool {
	for _, d := range DaysOfWeek {
		if d == s {
			return true
		}
	}
	return false
}

// WorkoutPlan represents one planned exercise on one day of the week.
// OrderIndex is unique within a (user, day) pair and defines replay order.
type WorkoutPlan struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id,omitempty"`
	DayOfWeek       string    `json:"day_of_week"`
	ExerciseID      uuid.UUID `json:"exercise_id"`
	ExerciseName    string    `json:"exercise_name"`
	Sets            *int      `json:"sets,omitempty"`
	Reps            *int      `json:"reps,omitempty"`
	WeightKg        *float64  `json:"weight_kg,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	DistanceKm      *float64  `json:"distance_km,omitempty"`
	OrderIndex      int       `json:"order_index"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewWorkoutPlan creates a plan entry with a generated UUID and current timestamp.
func NewWorkoutPlan(day string, exerciseID uuid.UUID, exerciseName string, orderIndex int) *WorkoutPlan {
	return &WorkoutPlan{
		ID:           uuid.New(),
		DayOfWeek:    day,
		ExerciseID:   exerciseID,
		ExerciseName: exerciseName,
		OrderIndex:   orderIndex,
		CreatedAt:    time.Now(),
	}
}

// Validate checks required plan fields. Failures wrap ErrValidation.
func (p *WorkoutPlan) Validate() error {
	if !IsValidDay(p.DayOfWeek) {
		return fmt.Errorf("%w: invalid day_of_week %q", ErrValidation, p.DayOfWeek)
	}
	if p.ExerciseID == uuid.Nil {
		return fmt.Errorf("%w: exercise_id is required", ErrValidation)
	}
	if p.ExerciseName == "" {
		return fmt.Errorf("%w: exercise_name is required", ErrValidation)
	}
	if p.OrderIndex < 0 {
		return fmt.Errorf("%w: order_index must not be negative", ErrValidation)
	}
	return nil
}
