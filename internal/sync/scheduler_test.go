// ABOUTME: Tests for the connectivity-driven scheduler.
// ABOUTME: Covers drain-on-reconnect, redundant-event suppression, and ctx teardown.
package sync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/liftlog/liftlog/internal/models"
)

type fakeMonitor struct {
	mu      sync.Mutex
	online  bool
	changes chan bool
}

func newFakeMonitor(online bool) *fakeMonitor {
	return &fakeMonitor{online: online, changes: make(chan bool)}
}

func (m *fakeMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *fakeMonitor) Changes() <-chan bool { return m.changes }

// set updates the state and blocks until the scheduler consumes the event.
func (m *fakeMonitor) set(state bool) {
	m.mu.Lock()
	m.online = state
	m.mu.Unlock()
	m.changes <- state
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSchedulerDrainsOnReconnect(t *testing.T) {
	s := setupTestStore(t)
	r := newFakeRemote()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := s.Enqueue(ctx, TableHistory, models.ActionInsert, map[string]interface{}{"id": "a"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	monitor := newFakeMonitor(false)
	p := NewProcessor(s, r, monitor.Online, 0, testLogger())
	// Interval long enough that only connectivity events trigger drains.
	sched := NewScheduler(p, monitor, time.Hour, testLogger())

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	// Offline at start: nothing reaches the remote.
	time.Sleep(20 * time.Millisecond)
	if len(r.upsertCalls()) != 0 {
		t.Fatal("No drain should happen while offline")
	}

	monitor.set(true)
	waitFor(t, "reconnect drain", func() bool { return len(r.upsertCalls()) == 1 })

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after ctx cancel")
	}
}

func TestSchedulerIgnoresRedundantEvents(t *testing.T) {
	s := setupTestStore(t)
	r := newFakeRemote()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := s.Enqueue(ctx, TableHistory, models.ActionInsert, map[string]interface{}{"id": "a"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	monitor := newFakeMonitor(true)
	p := NewProcessor(s, r, monitor.Online, 0, testLogger())
	sched := NewScheduler(p, monitor, time.Hour, testLogger())

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	// Online at start drains the backlog once.
	waitFor(t, "initial drain", func() bool { return len(r.upsertCalls()) == 1 })

	if _, err := s.Enqueue(ctx, TableHistory, models.ActionInsert, map[string]interface{}{"id": "b"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	// A same-state event is not a transition and must not drain.
	monitor.set(true)
	time.Sleep(50 * time.Millisecond)
	if got := len(r.upsertCalls()); got != 1 {
		t.Errorf("Redundant online event must not trigger a drain, got %d upserts", got)
	}

	// A real offline-to-online transition picks up the new item.
	monitor.set(false)
	monitor.set(true)
	waitFor(t, "transition drain", func() bool { return len(r.upsertCalls()) == 2 })

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after ctx cancel")
	}
}

func TestSchedulerPeriodicDrain(t *testing.T) {
	s := setupTestStore(t)
	r := newFakeRemote()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := newFakeMonitor(true)
	p := NewProcessor(s, r, monitor.Online, 0, testLogger())
	sched := NewScheduler(p, monitor, 10*time.Millisecond, testLogger())

	go sched.Run(ctx)

	// Enqueue after startup; only the ticker can pick this up.
	time.Sleep(20 * time.Millisecond)
	if _, err := s.Enqueue(ctx, TablePlans, models.ActionInsert, map[string]interface{}{"id": "p"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	waitFor(t, "periodic drain", func() bool { return len(r.upsertCalls()) == 1 })
}

func TestPollMonitorEmitsTransitions(t *testing.T) {
	var mu sync.Mutex
	online := false
	probe := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return online
	}

	m := NewPollMonitor(probe, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	if m.Online() {
		t.Fatal("Expected offline at start")
	}

	mu.Lock()
	online = true
	mu.Unlock()

	select {
	case state := <-m.Changes():
		if !state {
			t.Error("Expected an online transition")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transition event")
	}
}

func TestPollMonitorCatchesTransitionBeforeRun(t *testing.T) {
	var mu sync.Mutex
	online := false
	probe := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return online
	}

	// Baseline is sampled at construction, while still offline.
	m := NewPollMonitor(probe, 5*time.Millisecond)

	// Connectivity returns before the poll goroutine ever gets scheduled.
	mu.Lock()
	online = true
	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	select {
	case state := <-m.Changes():
		if !state {
			t.Error("Expected an online transition")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("transition before Run started was absorbed instead of emitted")
	}
}
