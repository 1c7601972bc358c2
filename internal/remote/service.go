// ABOUTME: Remote service boundary: table-like resources with select/insert/upsert/delete.
// ABOUTME: Consumed, not reimplemented; the core treats it as request in, records or error out.
package remote

import (
	"context"
	"errors"
)

// ErrUnreachable marks connectivity or server failures. The sync core
// recovers by leaving the affected queue item pending; it is never
// surfaced to the user as a hard failure.
var ErrUnreachable = errors.New("remote unreachable")

// Record is one row exchanged with the remote service.
type Record = map[string]interface{}

// Filter selects rows where a column equals a value.
type Filter struct {
	Column string
	Value  interface{}
}

// Service is the remote data boundary. Implementations translate these
// calls onto whatever transport the backend speaks; the sync core makes
// no transport assumptions.
type Service interface {
	// Select returns all rows matching the filter. A zero Filter selects
	// the whole table.
	Select(ctx context.Context, table string, filter Filter) ([]Record, error)

	// Insert creates a row.
	Insert(ctx context.Context, table string, record Record) error

	// Upsert creates or replaces a row keyed on conflictKey. Retrying an
	// acknowledged upsert is safe, which is what makes queue retries
	// idempotent.
	Upsert(ctx context.Context, table string, record Record, conflictKey string) error

	// Delete removes all rows matching the filter.
	Delete(ctx context.Context, table string, filter Filter) error

	// CurrentUser returns the authenticated user's identifier, or an
	// error when no session exists.
	CurrentUser(ctx context.Context) (string, error)
}
