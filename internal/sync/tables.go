// ABOUTME: Static mapping from logical local table names to remote table names.
// ABOUTME: Kept as data, not inline conditionals, so the mapping stays auditable.
package sync

// Logical table names used by the local store and queue.
const (
	TablePlans     = "plans"
	TableHistory   = "history"
	TableExercises = "exercises"
	TableFavorites = "favorites"
	TableMetrics   = "metrics"
)

// remoteTables redirects logical local table names to the remote
// service's table names.
var remoteTables = map[string]string{
	TablePlans:     "workout_plans",
	TableHistory:   "workout_sessions",
	TableExercises: "exercises",
	TableFavorites: "user_favorites",
	TableMetrics:   "user_metrics",
}

// RemoteTable resolves a logical table name to its remote counterpart.
// Unmapped names pass through unchanged.
func RemoteTable(local string) string {
	if mapped, ok := remoteTables[local]; ok {
		return mapped
	}
	return local
}
