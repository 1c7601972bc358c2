// ABOUTME: Exercise catalog entry model with trackable-metric flags.
// ABOUTME: Catalog rows are remote-authoritative; only the favorite flag is local.
package models

import (
	"github.com/google/uuid"
)

// Category classifies an exercise in the catalog.
type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryCardio      Category = "cardio"
	CategoryFlexibility Category = "flexibility"
	CategoryBalance     Category = "balance"
)

// AllCategories returns all valid exercise categories.
var AllCategories = []Category{
	CategoryStrength, CategoryCardio, CategoryFlexibility, CategoryBalance,
}

// IsValidCategory checks if a string is a valid exercise category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Exercise represents a catalog entry mirrored from the remote service.
// Normal users never edit these except for the per-user favorite flag,
// which is denormalized onto the local row.
type Exercise struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Category          Category  `json:"category"`
	Muscles           []string  `json:"muscles,omitempty"`
	Equipment         string    `json:"equipment,omitempty"`
	HasReps           bool      `json:"has_reps"`
	HasWeight         bool      `json:"has_weight"`
	HasTime           bool      `json:"has_time"`
	HasDistance       bool      `json:"has_distance"`
	HasFloors         bool      `json:"has_floors"`
	HasSteps          bool      `json:"has_steps"`
	CaloriesPerMinute float64   `json:"calories_per_minute"`
	ImageURL          *string   `json:"image_url,omitempty"`
	VideoURL          *string   `json:"video_url,omitempty"`
	IsFavorite        bool      `json:"is_favorite"`
}
