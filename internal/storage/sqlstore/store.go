// Package sqlstore persists titles, the availability snapshot and the
// observation history in MySQL, Postgres or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"glacier_alert/internal/domain"
)

// batchRows bounds the rows of one multi-value INSERT.
const batchRows = 500

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Store struct {
	db *sql.DB
	d  Dialect
}

// Open connects with the driver registered under the dialect's name and
// creates missing tables. The caller imports the driver.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if d == SQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}
	s, err := New(ctx, db, d)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open handle and ensures the schema exists.
func New(ctx context.Context, db *sql.DB, d Dialect) (*Store, error) {
	for _, stmt := range d.schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, d: d}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Dialect() Dialect { return s.d }

func (s *Store) LoadTitles(ctx context.Context) ([]domain.TitleEntry, error) {
	rows, err := s.db.QueryContext(ctx, selectTitlesSQL)
	if err != nil {
		return nil, fmt.Errorf("load titles: %w", err)
	}
	defer rows.Close()

	var out []domain.TitleEntry
	for rows.Next() {
		var e domain.TitleEntry
		var ns string
		if err := rows.Scan(&ns, &e.Code, &e.Title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		e.Namespace = domain.Namespace(ns)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) AddTitles(ctx context.Context, entries []domain.TitleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	prefix, suffix := s.d.insertTitles()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return batches(len(entries), func(lo, hi int) error {
			values := make([]string, 0, hi-lo)
			args := make([]any, 0, (hi-lo)*3)
			for _, e := range entries[lo:hi] {
				values = append(values, "(?,?,?)")
				args = append(args, string(e.Namespace), e.Code, e.Title)
			}
			q := s.d.rebind(prefix + strings.Join(values, ",") + suffix)
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("insert titles: %w", err)
			}
			return nil
		})
	})
}

func (s *Store) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, selectSnapshotSQL)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	out := domain.Snapshot{}
	for rows.Next() {
		var (
			day string
			k   domain.TupleKey
			n   int
		)
		if err := rows.Scan(&day, &k.HotelCode, &k.RoomCode, &n); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if k.Date, err = domain.ParseDate(day); err != nil {
			return nil, fmt.Errorf("snapshot row %s/%s: %w", k.HotelCode, k.RoomCode, err)
		}
		out[k] = n
	}
	return out, rows.Err()
}

// SaveSnapshot replaces the whole table in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	keys := snap.Keys()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteSnapshotSQL); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
		return batches(len(keys), func(lo, hi int) error {
			values := make([]string, 0, hi-lo)
			args := make([]any, 0, (hi-lo)*4)
			for _, k := range keys[lo:hi] {
				values = append(values, "(?,?,?,?)")
				args = append(args, k.Date.String(), k.HotelCode, k.RoomCode, snap[k])
			}
			q := s.d.rebind(insertSnapshotPrefix + strings.Join(values, ","))
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("insert snapshot: %w", err)
			}
			return nil
		})
	})
}

// AppendHistory records every observation of a cycle.
func (s *Store) AppendHistory(ctx context.Context, obs []domain.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return batches(len(obs), func(lo, hi int) error {
			values := make([]string, 0, hi-lo)
			args := make([]any, 0, (hi-lo)*7)
			for _, o := range obs[lo:hi] {
				values = append(values, "(?,?,?,?,?,?,?)")
				args = append(args,
					o.SampledAt.UTC().Format(time.RFC3339),
					o.Key.Date.String(),
					o.Key.HotelCode,
					o.Key.RoomCode,
					o.Available,
					valF64(o.Price),
					o.Updated,
				)
			}
			q := s.d.rebind(insertHistoryPrefix + strings.Join(values, ","))
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("insert history: %w", err)
			}
			return nil
		})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func batches(n int, fn func(lo, hi int) error) error {
	for lo := 0; lo < n; lo += batchRows {
		hi := min(lo+batchRows, n)
		if err := fn(lo, hi); err != nil {
			return err
		}
	}
	return nil
}
