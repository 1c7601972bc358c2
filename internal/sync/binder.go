// ABOUTME: Ownership binder: stamps the signed-in user onto anonymous local records.
// ABOUTME: Runs once per sign-in, before the first drain, so queued mutations carry ownership.
package sync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/liftlog/liftlog/internal/store"
)

// Binder retroactively assigns user identity to plans and history
// records created before authentication completed.
type Binder struct {
	store *store.Store
	log   zerolog.Logger
}

// NewBinder creates an ownership binder.
func NewBinder(s *store.Store, log zerolog.Logger) *Binder {
	return &Binder{store: s, log: log}
}

// BindResult reports how many records were bound and how many carry a
// conflicting owner.
type BindResult struct {
	Plans     int64
	Sessions  int64
	Conflicts int64
}

// Bind stamps userID onto every ownerless plan and history record.
// Records that already have an owner are never overwritten, even when
// the owner differs from userID; those are counted and logged as a
// data-integrity signal, not resolved here.
func (b *Binder) Bind(ctx context.Context, userID string) (BindResult, error) {
	var res BindResult

	plans, err := b.store.BindPlanOwner(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("bind plans: %w", err)
	}
	res.Plans = plans

	sessions, err := b.store.BindSessionOwner(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("bind sessions: %w", err)
	}
	res.Sessions = sessions

	planConflicts, err := b.store.PlanOwnerConflicts(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("count plan conflicts: %w", err)
	}
	sessionConflicts, err := b.store.SessionOwnerConflicts(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("count session conflicts: %w", err)
	}
	res.Conflicts = planConflicts + sessionConflicts

	if res.Conflicts > 0 {
		b.log.Warn().
			Str("user", userID).
			Int64("conflicts", res.Conflicts).
			Msg("records owned by a different user, leaving untouched")
	}
	b.log.Info().
		Str("user", userID).
		Int64("plans", res.Plans).
		Int64("sessions", res.Sessions).
		Msg("ownership bound")

	return res, nil
}
