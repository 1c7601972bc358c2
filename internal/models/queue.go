// ABOUTME: SyncItem model for the durable mutation queue.
// ABOUTME: Items are processed in seq order and flip pending -> synced exactly once.
package models

import (
	"encoding/json"
	"time"
)

// Action is the mutation kind carried by a queue item.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionDelete Action = "DELETE"
)

// Queue item status values. A synced item is never reprocessed. A dead
// item has been quarantined after exceeding the configured attempt ceiling.
const (
	StatusPending = "pending"
	StatusSynced  = "synced"
	StatusDead    = "dead"
)

// SyncItem is one queued mutation awaiting transmission to the remote
// service. Seq is assigned by the store and defines processing order.
// The payload is an opaque blob matching the target entity; it always
// carries a client-generated "id" so retried inserts stay idempotent.
type SyncItem struct {
	Seq       int64           `json:"seq"`
	Table     string          `json:"table"`
	Action    Action          `json:"action"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	Status    string          `json:"status"`
	Attempts  int             `json:"attempts"`
}

// PayloadID extracts the client-generated identifier from the payload.
func (i *SyncItem) PayloadID() (string, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(i.Payload, &probe); err != nil {
		return "", err
	}
	return probe.ID, nil
}
