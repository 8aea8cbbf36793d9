// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookreview_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_auth_attempts_total",
			Help: "Signup and login attempts by outcome.",
		},
		[]string{"action", "outcome"},
	)

	ReviewOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_review_operations_total",
			Help: "Review mutations by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreview_rate_limited_requests_total",
			Help: "Requests rejected by the auth rate limiter.",
		},
	)
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthAttempt records a signup or login outcome.
func RecordAuthAttempt(action, outcome string) {
	AuthAttemptsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordReviewOperation records an add, update or delete outcome.
func RecordReviewOperation(action, outcome string) {
	ReviewOperationsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordRateLimited counts a request rejected with 429.
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}
