// ABOUTME: Shared scan helpers and timestamp handling for store queries.
// ABOUTME: Timestamps are stored as RFC3339 text, matching the DATETIME columns.
package store

import "time"

const timeLayout = time.RFC3339

// rowsScanner is the common surface of *sql.Rows used by scan helpers.
type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// parseStoredTime parses an RFC3339 timestamp read back from the database.
// Malformed values yield the zero time rather than failing the whole scan.
func parseStoredTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
