// ABOUTME: UserMetrics model for body stats and training goals.
// ABOUTME: Remote is the source of truth; the local copy is a cache.
package models

import "time"

// UserMetrics holds per-user body stats used for calorie estimates.
type UserMetrics struct {
	UserID        string    `json:"user_id"`
	WeightKg      float64   `json:"weight_kg"`
	HeightCm      float64   `json:"height_cm"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender,omitempty"`
	ActivityLevel string    `json:"activity_level,omitempty"`
	Goal          string    `json:"goal,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
