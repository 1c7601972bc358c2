// ABOUTME: Sync queue processor: drains pending mutations against the remote service.
// ABOUTME: One drain cycle at a time, items in seq order, per-item failure isolation.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/liftlog/liftlog/internal/models"
	"github.com/liftlog/liftlog/internal/remote"
	"github.com/liftlog/liftlog/internal/store"
)

// Processor drains the sync queue. It only consumes and marks queue
// items; it never creates them.
type Processor struct {
	store  *store.Store
	remote remote.Service
	online func() bool
	log    zerolog.Logger

	// maxAttempts quarantines items to dead after this many failures.
	// Zero keeps the retry-forever behavior.
	maxAttempts int

	mu sync.Mutex // held for the duration of a drain cycle
}

// NewProcessor creates a queue processor. online reports device
// connectivity; a nil online func means always connected.
func NewProcessor(s *store.Store, r remote.Service, online func() bool, maxAttempts int, log zerolog.Logger) *Processor {
	return &Processor{
		store:       s,
		remote:      r,
		online:      online,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// DrainResult summarizes one drain cycle.
type DrainResult struct {
	Skipped   bool // offline, or another cycle was already in flight
	Attempted int
	Synced    int
	Failed    int
	Dead      int
}

// Drain attempts every pending queue item in ascending creation order.
// The drain is skipped entirely when the device is offline, and a drain
// request arriving while one is in progress is dropped rather than
// queued. A failure on one item never blocks the items after it; failed
// items stay pending for the next cycle.
func (p *Processor) Drain(ctx context.Context) (DrainResult, error) {
	var res DrainResult

	if p.online != nil && !p.online() {
		res.Skipped = true
		return res, nil
	}

	if !p.mu.TryLock() {
		p.log.Debug().Msg("drain already in progress, dropping request")
		res.Skipped = true
		return res, nil
	}
	defer p.mu.Unlock()

	items, err := p.store.PendingMutations(ctx)
	if err != nil {
		return res, fmt.Errorf("read pending mutations: %w", err)
	}

	for _, item := range items {
		res.Attempted++

		if err := p.processItem(ctx, item); err != nil {
			res.Failed++
			p.log.Warn().
				Err(err).
				Int64("seq", item.Seq).
				Str("table", item.Table).
				Str("action", string(item.Action)).
				Msg("sync item failed, will retry")

			attempts, aerr := p.store.IncrementAttempts(ctx, item.Seq)
			if aerr != nil {
				p.log.Error().Err(aerr).Int64("seq", item.Seq).Msg("record attempt failed")
				continue
			}
			if p.maxAttempts > 0 && attempts >= p.maxAttempts {
				if derr := p.store.MarkDead(ctx, item.Seq); derr != nil {
					p.log.Error().Err(derr).Int64("seq", item.Seq).Msg("quarantine failed")
					continue
				}
				res.Failed--
				res.Dead++
				p.log.Error().
					Int64("seq", item.Seq).
					Int("attempts", attempts).
					Msg("sync item quarantined after repeated failures")
			}
			continue
		}

		if err := p.store.MarkSynced(ctx, item.Seq); err != nil {
			res.Failed++
			p.log.Error().Err(err).Int64("seq", item.Seq).Msg("mark synced failed")
			continue
		}
		res.Synced++
	}

	if res.Attempted > 0 {
		p.log.Info().
			Int("attempted", res.Attempted).
			Int("synced", res.Synced).
			Int("failed", res.Failed).
			Int("dead", res.Dead).
			Msg("drain cycle complete")
	}
	return res, nil
}

// processItem translates one (table, action) pair into the concrete
// remote operation. Inserts go out as upserts keyed on the payload's
// client-generated id, so a retried item whose acknowledgment was lost
// cannot create a duplicate remote record.
func (p *Processor) processItem(ctx context.Context, item *models.SyncItem) error {
	table := RemoteTable(item.Table)

	switch item.Action {
	case models.ActionInsert:
		var record remote.Record
		if err := json.Unmarshal(item.Payload, &record); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return p.remote.Upsert(ctx, table, record, "id")

	case models.ActionDelete:
		id, err := item.PayloadID()
		if err != nil {
			return fmt.Errorf("decode payload id: %w", err)
		}
		return p.remote.Delete(ctx, table, remote.Filter{Column: "id", Value: id})

	default:
		return fmt.Errorf("unknown action %q", item.Action)
	}
}
