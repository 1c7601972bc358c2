// ABOUTME: Shared test doubles for the sync package.
// ABOUTME: In-memory remote service with per-table failure injection and call recording.
package sync

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/liftlog/liftlog/internal/remote"
	"github.com/liftlog/liftlog/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type upsertCall struct {
	Table       string
	Record      remote.Record
	ConflictKey string
}

type deleteCall struct {
	Table  string
	Filter remote.Filter
}

// fakeRemote is an in-memory remote.Service. Tables whose names appear
// in failing reject every call with ErrUnreachable.
type fakeRemote struct {
	mu      sync.Mutex
	rows    map[string][]remote.Record
	failing map[string]bool
	user    string
	userErr error

	upserts []upsertCall
	deletes []deleteCall
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		rows:    make(map[string][]remote.Record),
		failing: make(map[string]bool),
	}
}

func (f *fakeRemote) failTable(table string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[table] = true
}

func (f *fakeRemote) healTable(table string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failing, table)
}

func (f *fakeRemote) seed(table string, records ...remote.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[table] = append(f.rows[table], records...)
}

func (f *fakeRemote) tableRows(table string) []remote.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Record(nil), f.rows[table]...)
}

func (f *fakeRemote) upsertCalls() []upsertCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upsertCall(nil), f.upserts...)
}

func (f *fakeRemote) deleteCalls() []deleteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]deleteCall(nil), f.deletes...)
}

func (f *fakeRemote) Select(ctx context.Context, table string, filter remote.Filter) ([]remote.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[table] {
		return nil, remote.ErrUnreachable
	}
	var out []remote.Record
	for _, rec := range f.rows[table] {
		if filter.Column != "" && rec[filter.Column] != filter.Value {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRemote) Insert(ctx context.Context, table string, record remote.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[table] {
		return remote.ErrUnreachable
	}
	f.rows[table] = append(f.rows[table], record)
	return nil
}

func (f *fakeRemote) Upsert(ctx context.Context, table string, record remote.Record, conflictKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[table] {
		return remote.ErrUnreachable
	}
	f.upserts = append(f.upserts, upsertCall{Table: table, Record: record, ConflictKey: conflictKey})

	key := record[conflictKey]
	for i, existing := range f.rows[table] {
		if existing[conflictKey] == key {
			f.rows[table][i] = record
			return nil
		}
	}
	f.rows[table] = append(f.rows[table], record)
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, table string, filter remote.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[table] {
		return remote.ErrUnreachable
	}
	f.deletes = append(f.deletes, deleteCall{Table: table, Filter: filter})

	kept := f.rows[table][:0]
	for _, rec := range f.rows[table] {
		if rec[filter.Column] != filter.Value {
			kept = append(kept, rec)
		}
	}
	f.rows[table] = kept
	return nil
}

func (f *fakeRemote) CurrentUser(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return "", f.userErr
	}
	if f.user == "" {
		return "", errors.New("no session")
	}
	return f.user, nil
}
