// ABOUTME: Active-session singleton slot keyed by a fixed constant key.
// ABOUTME: The record is replaced wholesale on every write; no partial-field merge.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/liftlog/liftlog/internal/models"
)

// ActiveSession returns the current in-progress session, or nil when the
// slot is empty.
func (s *Store) ActiveSession(ctx context.Context) (*models.ActiveSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM active_session WHERE slot_key = ?`, activeSessionKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}

	var session models.ActiveSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("unmarshal active session: %w", err)
	}
	return &session, nil
}

// PutActiveSession replaces the singleton slot with the given record.
// The write commits atomically, so a crash never leaves a half-written row.
func (s *Store) PutActiveSession(ctx context.Context, session *models.ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO active_session (slot_key, data) VALUES (?, ?)
		ON CONFLICT(slot_key) DO UPDATE SET data = excluded.data`,
		activeSessionKey, string(data))
	if err != nil {
		return fmt.Errorf("put active session: %w", err)
	}
	return nil
}

// ClearActiveSession empties the singleton slot. Clearing an already-empty
// slot is a no-op.
func (s *Store) ClearActiveSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM active_session WHERE slot_key = ?`, activeSessionKey)
	if err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
