// ABOUTME: Durable sync queue operations: enqueue, drain reads, and status flips.
// ABOUTME: Items are kept after syncing as an audit trail; nothing is physically deleted.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/liftlog/liftlog/internal/models"
)

// Enqueue appends a pending mutation for the given logical table and
// returns its assigned sequence identifier. The payload must already
// carry the record's client-generated id.
func (s *Store) Enqueue(ctx context.Context, table string, action models.Action, payload interface{}) (int64, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal queue payload: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_queue (table_name, action, payload, created_at, status)
		VALUES (?, ?, ?, ?, ?)`,
		table, string(action), string(data),
		time.Now().UTC().Format(timeLayout), models.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("enqueue mutation: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("enqueue mutation: %w", err)
	}
	return seq, nil
}

// PendingMutations returns all pending queue items in ascending creation
// order, the order a drain cycle must attempt them in.
func (s *Store) PendingMutations(ctx context.Context) ([]*models.SyncItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, table_name, action, payload, created_at, status, attempts
		FROM sync_queue
		WHERE status = ?
		ORDER BY seq ASC`, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("pending mutations: %w", err)
	}
	defer rows.Close()

	var items []*models.SyncItem
	for rows.Next() {
		var item models.SyncItem
		var action, payload, createdAt string

		err := rows.Scan(&item.Seq, &item.Table, &action, &payload, &createdAt,
			&item.Status, &item.Attempts)
		if err != nil {
			return nil, fmt.Errorf("scan queue item: %w", err)
		}
		item.Action = models.Action(action)
		item.Payload = json.RawMessage(payload)
		item.CreatedAt = parseStoredTime(createdAt)

		items = append(items, &item)
	}
	return items, rows.Err()
}

// MarkSynced flips an item to synced after a confirmed remote
// acknowledgment. Marking an already-synced item is a no-op, not an error.
func (s *Store) MarkSynced(ctx context.Context, seq int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_queue SET status = ? WHERE seq = ? AND status != ?`,
		models.StatusSynced, seq, models.StatusSynced)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// MarkDead quarantines a perpetually-failing item so it stops masking
// silent data loss. Dead items are skipped by later drain cycles.
func (s *Store) MarkDead(ctx context.Context, seq int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_queue SET status = ? WHERE seq = ? AND status = ?`,
		models.StatusDead, seq, models.StatusPending)
	if err != nil {
		return fmt.Errorf("mark dead: %w", err)
	}
	return nil
}

// IncrementAttempts bumps the failure counter on a pending item and
// returns the new count.
func (s *Store) IncrementAttempts(ctx context.Context, seq int64) (int, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sync_queue SET attempts = attempts + 1 WHERE seq = ?`, seq)
	if err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}

	var attempts int
	err = s.db.QueryRowContext(ctx,
		`SELECT attempts FROM sync_queue WHERE seq = ?`, seq).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return attempts, nil
}

// HasPending reports whether any pending queue item targets the given
// logical table and record id. The populator uses this to avoid
// overwriting local records with unresolved mutations.
func (s *Store) HasPending(ctx context.Context, table, recordID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sync_queue
		WHERE status = ? AND table_name = ?
		AND json_extract(payload, '$.id') = ?`,
		models.StatusPending, table, recordID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has pending: %w", err)
	}
	return n > 0, nil
}

// CountByStatus returns queue item counts keyed by status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM sync_queue GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan queue count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
