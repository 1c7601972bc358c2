// ABOUTME: Connectivity-driven scheduler: periodic drains plus drain-on-reconnect.
// ABOUTME: Ticker and connectivity listener share one lifecycle, torn down by ctx cancel.
package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the periodic drain interval while the app is active.
const DefaultInterval = 30 * time.Second

// Monitor reports device connectivity. Changes delivers the new state on
// every platform-reported transition; redundant same-state events may
// appear and are ignored by the scheduler.
type Monitor interface {
	Online() bool
	Changes() <-chan bool
}

// Scheduler invokes the processor on a fixed interval and immediately on
// an offline-to-online transition.
type Scheduler struct {
	processor *Processor
	monitor   Monitor
	interval  time.Duration
	log       zerolog.Logger
}

// NewScheduler creates a scheduler. A non-positive interval gets
// DefaultInterval.
func NewScheduler(p *Processor, m Monitor, interval time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{processor: p, monitor: m, interval: interval, log: log}
}

// Run drives drain cycles until ctx is canceled. The periodic ticker and
// the connectivity listener are released together on return.
func (s *Scheduler) Run(ctx context.Context) {
	online := s.monitor.Online()
	if online {
		s.drain(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			s.drain(ctx)

		case state, ok := <-s.monitor.Changes():
			if !ok {
				return
			}
			if state == online {
				continue // redundant event, no transition
			}
			online = state
			if online {
				s.log.Info().Msg("connectivity restored, draining immediately")
				s.drain(ctx)
			} else {
				s.log.Info().Msg("connectivity lost")
			}
		}
	}
}

func (s *Scheduler) drain(ctx context.Context) {
	if _, err := s.processor.Drain(ctx); err != nil {
		// Local-store failures are transient; the next trigger retries.
		s.log.Error().Err(err).Msg("drain cycle error")
	}
}

// PollMonitor adapts a connectivity probe func to the Monitor interface
// by polling and emitting transitions.
type PollMonitor struct {
	probe    func() bool
	interval time.Duration
	baseline bool
	changes  chan bool
}

// NewPollMonitor creates a monitor that polls probe at the given interval.
// The baseline state is sampled here, at construction, so a transition
// between construction and Run's first poll is emitted rather than
// absorbed into the initial state.
func NewPollMonitor(probe func() bool, interval time.Duration) *PollMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &PollMonitor{
		probe:    probe,
		interval: interval,
		baseline: probe(),
		changes:  make(chan bool, 1),
	}
}

// Online reports the probe's current view of connectivity.
func (m *PollMonitor) Online() bool {
	return m.probe()
}

// Changes returns the transition channel. Run must be started for events
// to flow.
func (m *PollMonitor) Changes() <-chan bool {
	return m.changes
}

// Run polls until ctx is canceled, pushing state transitions onto the
// change channel. A transition that finds the channel full is dropped;
// the scheduler's periodic tick covers the gap.
func (m *PollMonitor) Run(ctx context.Context) {
	state := m.baseline

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := m.probe()
			if now == state {
				continue
			}
			state = now
			select {
			case m.changes <- now:
			default:
			}
		}
	}
}
