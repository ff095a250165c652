package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venueguard_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "venueguard_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	permissionDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venueguard_permission_denied_total",
		Help: "Count of requests rejected by the permission table",
	}, []string{"permission"})

	recordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venueguard_records_created_total",
		Help: "Count of records created by kind",
	}, []string{"kind"})

	recordsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venueguard_records_deleted_total",
		Help: "Count of records deleted by kind",
	}, []string{"kind"})

	cascadeReferencesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "venueguard_cascade_references_removed_total",
		Help: "Warnings updated to drop a deleted incident",
	})

	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "venueguard_report_duration_seconds",
		Help:    "Duration of incident report generation",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	statsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "venueguard_stats_cache_lookups_total",
		Help: "Dashboard stats cache lookups by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObservePermissionDenied counts a rejected permission check
func ObservePermissionDenied(permission string) {
	permissionDenied.WithLabelValues(permission).Inc()
}

// ObserveCreated counts a created record of the given kind
func ObserveCreated(kind string) {
	recordsCreated.WithLabelValues(kind).Inc()
}

// ObserveDeleted counts a deleted record of the given kind
func ObserveDeleted(kind string) {
	recordsDeleted.WithLabelValues(kind).Inc()
}

// ObserveCascade adds the number of warnings touched by an incident delete
func ObserveCascade(updated int64) {
	if updated > 0 {
		cascadeReferencesRemoved.Add(float64(updated))
	}
}

// ObserveReport records the duration of a report build with a result label.
func ObserveReport(result string, duration time.Duration) {
	reportDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveStatsCache counts a stats cache hit or miss
func ObserveStatsCache(hit bool) {
	if hit {
		statsCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	statsCacheLookups.WithLabelValues("miss").Inc()
}
