package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard_client"

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Backend requests by method and response status (0 when no response was received).",
	}, []string{"method", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Latency of backend requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	RetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retries_total",
		Help:      "Retries scheduled after a transient failure, by operation.",
	}, []string{"operation"})

	AuthFailureNotifications = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failure_notifications_total",
		Help:      "Authentication-failure notifications emitted by the session guard.",
	})

	AuthFailureSuppressed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failure_suppressed_total",
		Help:      "401 responses swallowed during the cooldown window.",
	})

	NormalizationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "normalization_failures_total",
		Help:      "Envelopes that matched no known shape, by resource.",
	}, []string{"resource"})

	AggregationSkippedUsers = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregation_skipped_users_total",
		Help:      "Users excluded from cross-user aggregation because their balance could not be normalized.",
	})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors on the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDuration,
			RetriesTotal,
			AuthFailureNotifications,
			AuthFailureSuppressed,
			NormalizationFailures,
			AggregationSkippedUsers,
		)
	})
}

// ObserveRequest records one backend round trip.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
