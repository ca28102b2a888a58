package domain

import "context"

// Fetcher is the boundary to the reservation site.
type Fetcher interface {
	Catalog(ctx context.Context) (Catalog, error)
	Availability(ctx context.Context, hotelCodes []string, w Window) (Table, error)
}

type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (Snapshot, error)
	// SaveSnapshot replaces the stored snapshot atomically.
	SaveSnapshot(ctx context.Context, s Snapshot) error
}

type TitleStore interface {
	LoadTitles(ctx context.Context) ([]TitleEntry, error)
	// AddTitles inserts entries, leaving existing (namespace, code) rows untouched.
	AddTitles(ctx context.Context, entries []TitleEntry) error
}

type HistoryStore interface {
	AppendHistory(ctx context.Context, obs []Observation) error
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Locker serialises runs across processes. Acquire returns ErrRunLocked when
// the lock is held elsewhere.
type Locker interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

type ReportStore interface {
	SaveReport(ctx context.Context, r Report) error
	LastReport(ctx context.Context) (Report, bool, error)
}
