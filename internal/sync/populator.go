// ABOUTME: Cache populator: refreshes local caches from the remote service.
// ABOUTME: Remote failures are swallowed at this boundary; stale cache is served instead.
package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/liftlog/liftlog/internal/models"
	"github.com/liftlog/liftlog/internal/remote"
	"github.com/liftlog/liftlog/internal/store"
)

// Populator pulls authoritative data from the remote service into the
// local store, for cold-start population and periodic refresh.
type Populator struct {
	store  *store.Store
	remote remote.Service
	log    zerolog.Logger
}

// NewPopulator creates a cache populator.
func NewPopulator(s *store.Store, r remote.Service, log zerolog.Logger) *Populator {
	return &Populator{store: s, remote: r, log: log}
}

// RefreshCatalog replaces the local exercise catalog from the remote
// service. Favorite flags are preserved across the clear. Remote errors
// leave the existing cache untouched and are not propagated.
func (p *Populator) RefreshCatalog(ctx context.Context) error {
	records, err := p.remote.Select(ctx, RemoteTable(TableExercises), remote.Filter{})
	if err != nil {
		p.log.Warn().Err(err).Msg("catalog refresh failed, serving stale cache")
		return nil
	}

	exercises := make([]*models.Exercise, 0, len(records))
	for _, rec := range records {
		e, err := decodeRecord[models.Exercise](rec)
		if err != nil {
			p.log.Warn().Err(err).Msg("skipping malformed catalog row")
			continue
		}
		exercises = append(exercises, e)
	}

	if err := p.store.ReplaceCatalog(ctx, exercises); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}

	p.log.Info().Int("exercises", len(exercises)).Msg("catalog refreshed")
	return nil
}

// RefreshPlans pulls the remote plans for one day and upserts them by
// key. A pulled record never overwrites a local record that still has a
// pending queue item referencing it.
func (p *Populator) RefreshPlans(ctx context.Context, day string) error {
	records, err := p.remote.Select(ctx, RemoteTable(TablePlans),
		remote.Filter{Column: "day_of_week", Value: day})
	if err != nil {
		p.log.Warn().Err(err).Str("day", day).Msg("plan refresh failed, serving stale cache")
		return nil
	}
	return p.applyPulled(ctx, TablePlans, records, func(ctx context.Context, rec remote.Record) error {
		plan, err := decodeRecord[models.WorkoutPlan](rec)
		if err != nil {
			return err
		}
		return p.store.UpsertPlan(ctx, plan)
	})
}

// RefreshHistory pulls the full remote history for a user and upserts it
// by key, with the same pending-mutation guard as plans.
func (p *Populator) RefreshHistory(ctx context.Context, userID string) error {
	records, err := p.remote.Select(ctx, RemoteTable(TableHistory),
		remote.Filter{Column: "user_id", Value: userID})
	if err != nil {
		p.log.Warn().Err(err).Msg("history refresh failed, serving stale cache")
		return nil
	}
	return p.applyPulled(ctx, TableHistory, records, func(ctx context.Context, rec remote.Record) error {
		session, err := decodeRecord[models.WorkoutSession](rec)
		if err != nil {
			return err
		}
		return p.store.UpsertSession(ctx, session)
	})
}

// RefreshMetrics pulls the user's body metrics into the local cache.
func (p *Populator) RefreshMetrics(ctx context.Context, userID string) error {
	records, err := p.remote.Select(ctx, RemoteTable(TableMetrics),
		remote.Filter{Column: "user_id", Value: userID})
	if err != nil {
		p.log.Warn().Err(err).Msg("metrics refresh failed, serving stale cache")
		return nil
	}
	for _, rec := range records {
		m, err := decodeRecord[models.UserMetrics](rec)
		if err != nil {
			p.log.Warn().Err(err).Msg("skipping malformed metrics row")
			continue
		}
		if err := p.store.PutUserMetrics(ctx, m); err != nil {
			return fmt.Errorf("cache user metrics: %w", err)
		}
	}
	return nil
}

// applyPulled upserts pulled records, skipping any record with an
// unresolved local mutation still in the queue.
func (p *Populator) applyPulled(ctx context.Context, table string, records []remote.Record,
	apply func(context.Context, remote.Record) error) error {

	applied, skipped := 0, 0
	for _, rec := range records {
		id, _ := rec["id"].(string)
		if id != "" {
			pending, err := p.store.HasPending(ctx, table, id)
			if err != nil {
				return fmt.Errorf("check pending for %s/%s: %w", table, id, err)
			}
			if pending {
				skipped++
				continue
			}
		}

		if err := apply(ctx, rec); err != nil {
			p.log.Warn().Err(err).Str("table", table).Str("id", id).Msg("skipping pulled row")
			continue
		}
		applied++
	}

	p.log.Info().
		Str("table", table).
		Int("applied", applied).
		Int("skipped_pending", skipped).
		Msg("cache refreshed")
	return nil
}

// decodeRecord converts a generic remote record into a typed model.
func decodeRecord[T any](rec remote.Record) (*T, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &result, nil
}
