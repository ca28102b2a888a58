package redisad_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "glacier_alert/internal/adapters/redis"
	"glacier_alert/internal/domain"
)

func TestLocker_ExclusiveUntilReleased(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.NewClient(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	a := redisad.NewLocker(c, "test:lock", time.Minute)
	b := redisad.NewLocker(c, "test:lock", time.Minute)

	release, err := a.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := b.Acquire(ctx); !errors.Is(err, domain.ErrRunLocked) {
		t.Fatalf("expected ErrRunLocked, got %v", err)
	}
	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	releaseB, err := b.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = releaseB(ctx)
}

func TestLocker_ExpiredLockIsNotStolenBack(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.NewClient(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	l := redisad.NewLocker(c, "test:lock", time.Second)
	staleRelease, err := l.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(2 * time.Second)

	// another run takes the expired lock
	if _, err := l.Acquire(ctx); err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}
	// the stale holder must not delete the new owner's key
	if err := staleRelease(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if !mr.Exists("test:lock") {
		t.Fatalf("stale release removed someone else's lock")
	}
}

func TestReports_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.NewClient(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()
	if err := redisad.Ping(ctx, c); err != nil {
		t.Fatalf("ping: %v", err)
	}

	r := redisad.NewReports(c, time.Hour)
	if _, ok, err := r.LastReport(ctx); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	d, _ := domain.ParseDate("2024-09-02")
	in := domain.Report{RunID: "run-1", Available: 2, Persisted: true,
		Failures: []domain.FetchFailure{{HotelCode: "MG", Date: &d, Reason: "missing rooms list"}}}
	if err := r.SaveReport(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, ok, err := r.LastReport(ctx)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.RunID != "run-1" || out.Available != 2 || out.Failures[0].Date.String() != "2024-09-02" {
		t.Fatalf("unexpected report: %+v", out)
	}
	if ttl := mr.TTL("glacier:last_report"); ttl != time.Hour {
		t.Fatalf("ttl: %v", ttl)
	}
}
