package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuthAttempts counts register and login calls by outcome.
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_auth_attempts_total",
			Help: "Registration and login attempts by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// EntryMutations counts successful journal entry writes by operation (create, update, delete).
	EntryMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_entry_mutations_total",
			Help: "Journal entry writes by operation",
		},
		[]string{"op"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	userPathSegment    = regexp.MustCompile(`/user/[^/]+`)
	symbolPathSegment  = regexp.MustCompile(`/symbol/[^/]+`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuthAttempts, EntryMutations)
	})
}

// NormalizePath reduces cardinality by replacing ids, user ids and symbols with placeholders.
// E.g. /api/journal/123 -> /api/journal/{id}, /api/journal/user/a@b.com/stats -> /api/journal/user/{userId}/stats.
func NormalizePath(path string) string {
	path = userPathSegment.ReplaceAllString(path, "/user/{userId}")
	path = symbolPathSegment.ReplaceAllString(path, "/symbol/{symbol}")
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAuthAttempt records one register/login outcome, e.g. ("login", "failure").
func IncAuthAttempt(action, outcome string) {
	AuthAttempts.WithLabelValues(action, outcome).Inc()
}

// IncEntryMutation records one successful create, update or delete.
func IncEntryMutation(op string) {
	EntryMutations.WithLabelValues(op).Inc()
}
