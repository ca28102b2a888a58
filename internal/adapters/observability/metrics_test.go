package observability_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"glacier_alert/internal/adapters/observability"
	"glacier_alert/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveRun(domain.Report{Available: 2, Watched: 4, Persisted: true, FinishedAt: time.Now(),
		Failures: []domain.FetchFailure{{HotelCode: "MG", Reason: "timeout"}}}, nil)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"glacier_http_requests_total",
		`glacier_runs_total{outcome="ok"}`,
		`glacier_transition_events_total{direction="became_available"}`,
		`glacier_fetch_failures_total{hotel="MG",scope="hotel"}`,
		"glacier_watched_tuples 4",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestRunOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":            nil,
		"locked":        domain.ErrRunLocked,
		"notify_failed": fmt.Errorf("%w: smtp down", domain.ErrNotifyFailed),
		"fetch_failed":  fmt.Errorf("%w: dns", domain.ErrFetchFailed),
		"error":         errors.New("disk full"),
	}
	for want, err := range cases {
		if got := observability.RunOutcome(err); got != want {
			t.Fatalf("%v: got %s want %s", err, got, want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo("prod", &buf)
	l.Info().Str("run_id", "abc").Msg("hello")
	if !strings.Contains(buf.String(), `"run_id":"abc"`) || !strings.Contains(buf.String(), `"app":"glacier-alert"`) {
		t.Fatalf("unexpected log line: %s", buf.String())
	}
}
