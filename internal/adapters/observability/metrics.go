package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"glacier_alert/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glacier", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "glacier", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glacier", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "glacier", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glacier", Name: "cache_events_total", Help: "Cache hits/misses/sets."},
		[]string{"cache", "event"}, // event: hit|miss|set
	)
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glacier", Name: "runs_total", Help: "Completed or aborted cycles."},
		[]string{"outcome"}, // ok|notify_failed|fetch_failed|locked|error
	)
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glacier", Name: "transition_events_total", Help: "Detected availability transitions."},
		[]string{"direction"},
	)
	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glacier", Name: "fetch_failures_total", Help: "Hotels or dates excluded from a cycle."},
		[]string{"hotel", "scope"}, // scope: hotel|date
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "glacier", Name: "notifications_total", Help: "Notification attempts."},
		[]string{"channel", "outcome"},
	)
	WatchedTuples = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "glacier", Name: "watched_tuples", Help: "Watched tuples in the last cycle."},
	)
	LastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "glacier", Name: "last_success_timestamp_seconds", Help: "Unix time of the last persisted cycle."},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, CacheEvents,
		Runs, Transitions, FetchFailures, Notifications, WatchedTuples, LastSuccess)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveNotification(channel string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Notifications.WithLabelValues(channel, outcome).Inc()
}

// ObserveRun records the outcome of one orchestrated cycle.
func ObserveRun(rep domain.Report, err error) {
	Runs.WithLabelValues(RunOutcome(err)).Inc()
	Transitions.WithLabelValues(string(domain.BecameAvailable)).Add(float64(rep.Available))
	Transitions.WithLabelValues(string(domain.BecameUnavailable)).Add(float64(rep.Unavailable))
	for _, f := range rep.Failures {
		scope := "date"
		if f.WholeHotel() {
			scope = "hotel"
		}
		FetchFailures.WithLabelValues(f.HotelCode, scope).Inc()
	}
	WatchedTuples.Set(float64(rep.Watched))
	if rep.Persisted {
		LastSuccess.Set(float64(rep.FinishedAt.Unix()))
	}
}

func RunOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrRunLocked):
		return "locked"
	case errors.Is(err, domain.ErrNotifyFailed):
		return "notify_failed"
	case errors.Is(err, domain.ErrFetchFailed):
		return "fetch_failed"
	default:
		return "error"
	}
}
