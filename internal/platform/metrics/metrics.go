// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finance_tracker"

var (
	// HTTPRequests counts served requests by route template, method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route template and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// RemoteFailures counts remote store failures by operation.
	RemoteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_store_failures_total",
		Help:      "Remote store operations that failed, by operation.",
	}, []string{"operation"})

	// OverLimitBlocked counts new transactions refused because the overdraft limit was exceeded.
	OverLimitBlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "over_limit_blocked_total",
		Help:      "New transactions blocked by the overdraft policy, by type.",
	}, []string{"type"})

	// ActiveSessions is the number of user sessions held in memory.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "User finance sessions currently cached.",
	})

	// DatabaseReady is 1 once the remote schema has been verified.
	DatabaseReady = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "database_ready",
		Help:      "Whether the remote store schema has been verified.",
	})

	// InvoicesProcessed counts processed invoices by confidence level ("manual" when extraction was skipped).
	InvoicesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_processed_total",
		Help:      "Invoices turned into transactions, by confidence level.",
	}, []string{"confidence"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
