package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	auditEntriesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_audit_entries_written_total",
		Help: "Total number of operation log entries persisted",
	})
	auditEntriesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_audit_entries_failed_total",
		Help: "Total number of operation log entries that could not be persisted",
	})
	rateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"bucket"})
	sseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "backoffice_sse_connections",
		Help: "Number of open server-sent event connections",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		auditEntriesWritten,
		auditEntriesFailed,
		rateLimitedTotal,
		sseConnections,
	)
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncAuditWritten increments the persisted audit entries counter.
func IncAuditWritten() { auditEntriesWritten.Inc() }

// IncAuditFailed increments the failed audit writes counter.
func IncAuditFailed() { auditEntriesFailed.Inc() }

// IncRateLimited increments the rejected requests counter for a limiter bucket.
func IncRateLimited(bucket string) { rateLimitedTotal.WithLabelValues(bucket).Inc() }

// SetSSEConnections reports the current number of open event streams.
func SetSSEConnections(n int) { sseConnections.Set(float64(n)) }
