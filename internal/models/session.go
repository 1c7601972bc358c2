// ABOUTME: ActiveSession and WorkoutSession models for in-progress and historical workouts.
// ABOUTME: The active session is a device singleton, replaced wholesale on every write.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session status values.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// SessionSet records the actual values achieved for one set.
type SessionSet struct {
	Reps            *int     `json:"reps,omitempty"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	Floors          *int     `json:"floors,omitempty"`
	Steps           *int     `json:"steps,omitempty"`
}

// SessionExercise tracks per-exercise progress within a session.
type SessionExercise struct {
	ExerciseID   uuid.UUID    `json:"exercise_id"`
	ExerciseName string       `json:"exercise_name"`
	Completed    bool         `json:"completed"`
	Skipped      bool         `json:"skipped"`
	Sets         []SessionSet `json:"sets,omitempty"`
}

// ActiveSession is the single in-progress workout on this device.
// At most one exists at any time; writes replace the whole record.
type ActiveSession struct {
	LocalID   uuid.UUID         `json:"local_id"`
	DayOfWeek string            `json:"day_of_week"`
	StartedAt time.Time         `json:"started_at"`
	Status    string            `json:"status"`
	Exercises []SessionExercise `json:"exercises"`
}

// NewActiveSession starts a session from a plan snapshot for the given day.
func NewActiveSession(day string, plans []*WorkoutPlan) *ActiveSession {
	s := &ActiveSession{
		LocalID:   uuid.New(),
		DayOfWeek: day,
		StartedAt: time.Now(),
		Status:    SessionActive,
	}
	for _, p := range plans {
		s.Exercises = append(s.Exercises, SessionExercise{
			ExerciseID:   p.ExerciseID,
			ExerciseName: p.ExerciseName,
		})
	}
	return s
}

// WorkoutSession is a finalized history record. Once written it is
// append-only from the sync perspective; edits reuse the upsert path.
type WorkoutSession struct {
	ID                   uuid.UUID         `json:"id"`
	UserID               string            `json:"user_id,omitempty"`
	DayOfWeek            string            `json:"day_of_week"`
	Date                 string            `json:"date"`
	StartedAt            time.Time         `json:"started_at"`
	EndedAt              time.Time         `json:"ended_at"`
	Status               string            `json:"status"`
	TotalDurationMinutes int               `json:"total_duration_minutes"`
	TotalCalories        float64           `json:"total_calories"`
	Exercises            []SessionExercise `json:"exercises"`
}

// Finalize converts the active session into a history record.
// caloriesPerMinute estimates burn from the session duration.
func (a *ActiveSession) Finalize(userID string, caloriesPerMinute float64) *WorkoutSession {
	ended := time.Now()
	minutes := int(ended.Sub(a.StartedAt).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return &WorkoutSession{
		ID:                   a.LocalID,
		UserID:               userID,
		DayOfWeek:            a.DayOfWeek,
		Date:                 a.StartedAt.Format("2006-01-02"),
		StartedAt:            a.StartedAt,
		EndedAt:              ended,
		Status:               SessionCompleted,
		TotalDurationMinutes: minutes,
		TotalCalories:        caloriesPerMinute * float64(minutes),
		Exercises:            a.Exercises,
	}
}
