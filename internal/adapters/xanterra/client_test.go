package xanterra_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"glacier_alert/internal/adapters/xanterra"
	"glacier_alert/internal/domain"
)

func newClient(t *testing.T, base string) *xanterra.Client {
	t.Helper()
	cl, err := xanterra.New(xanterra.Config{BaseURL: base, RPS: 100, Workers: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_Catalog_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/property/hotels/glaciernationalparklodges":
			if atomic.AddInt32(&hits, 1) <= 2 {
				// two transient failures
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"a":{"code":"LMH","title":"Lake McDonald <b>Lodge</b>"},"b":{"code":"MG","title":"Many Glacier &amp; Co"}}`))
		case "/property/rooms/glaciernationalparklodges/LMH":
			_, _ = w.Write([]byte(`[{"code":"LMHCAB","title":"Cabin"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cat, err := newClient(t, ts.URL).Catalog(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
	if len(cat.Hotels) != 2 || cat.Hotels[0].Title != "Lake McDonald Lodge" || cat.Hotels[1].Title != "Many Glacier & Co" {
		t.Fatalf("unexpected hotels: %+v", cat.Hotels)
	}
	// MG rooms 404 -> skipped, LMH rooms kept
	if len(cat.Rooms) != 1 || cat.Rooms[0].Code != "LMHCAB" || cat.RoomsByHotel["LMH"][0] != "LMHCAB" {
		t.Fatalf("unexpected rooms: %+v", cat.Rooms)
	}
}

func TestClient_RetriesWaitForLimiter(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	// one token per 100s: the retry cannot get a second one before the deadline
	cl, err := xanterra.New(xanterra.Config{BaseURL: ts.URL, RPS: 0.01})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := cl.Catalog(ctx); err == nil {
		t.Fatalf("expected error")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("retry bypassed the limiter: %d requests", n)
	}
}

func TestClient_Catalog_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := newClient(t, ts.URL).Catalog(ctx)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	if _, err := xanterra.New(xanterra.Config{BaseURL: "ftp://example"}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLinker(t *testing.T) {
	d, _ := domain.ParseDate("2024-09-01")
	got := xanterra.Linker{}.Link("LMH", d)
	want := "https://secure.glaciernationalparklodges.com/booking/lodging-select?adults=1&children=0&dateFrom=09-01-2024&destination=LMH&nights=1"
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}
