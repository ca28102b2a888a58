package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"glacier_alert/internal/domain"
)

// ---- fakes ----

type fakeTitles struct {
	entries []domain.TitleEntry
	adds    int
	err     error
}

func (f *fakeTitles) LoadTitles(ctx context.Context) ([]domain.TitleEntry, error) {
	return append([]domain.TitleEntry(nil), f.entries...), nil
}

func (f *fakeTitles) AddTitles(ctx context.Context, entries []domain.TitleEntry) error {
	if f.err != nil {
		return f.err
	}
	f.adds++
	f.entries = append(f.entries, entries...)
	return nil
}

type fakeSnapshots struct {
	snap  domain.Snapshot
	saves int
}

func (f *fakeSnapshots) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	return f.snap.Clone(), nil
}

func (f *fakeSnapshots) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	f.saves++
	f.snap = s.Clone()
	return nil
}

type fakeFetcher struct {
	catalog    domain.Catalog
	catalogErr error
	table      domain.Table
	err        error
	catalogs   int
}

func (f *fakeFetcher) Catalog(ctx context.Context) (domain.Catalog, error) {
	f.catalogs++
	return f.catalog, f.catalogErr
}

func (f *fakeFetcher) Availability(ctx context.Context, hotels []string, w domain.Window) (domain.Table, error) {
	return f.table, f.err
}

type fakeNotifier struct {
	sent []domain.Notification
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeHistory struct{ rows int }

func (f *fakeHistory) AppendHistory(ctx context.Context, obs []domain.Observation) error {
	f.rows += len(obs)
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	releases int
}

func (f *fakeLocker) Acquire(ctx context.Context) (func(context.Context) error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held {
		return nil, domain.ErrRunLocked
	}
	f.held = true
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.held = false
		f.releases++
		return nil
	}, nil
}

var errBoom = errors.New("boom")

// ---- helpers ----

func day(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func key(t *testing.T, date, hotel, room string) domain.TupleKey {
	t.Helper()
	return domain.TupleKey{Date: day(t, date), HotelCode: hotel, RoomCode: room}
}

func obs(k domain.TupleKey, n int) domain.Observation {
	return domain.Observation{Key: k, Available: n}
}

func watchAll(t domain.Table) map[domain.TupleKey]struct{} {
	out := map[domain.TupleKey]struct{}{}
	for _, o := range t.Observations {
		out[o.Key] = struct{}{}
	}
	return out
}
