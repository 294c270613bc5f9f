package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	ReportWriteCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_write_count",
			Help: "Total number of weekly report writes",
		},
		[]string{"operation", "result"}, // operation: create, update; result: success, validation_failed, denied, error
	)

	CompletionDecisionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_decision_count",
			Help: "Total number of completion decisions resolved",
		},
		[]string{"outcome"}, // outcome: confirmed, declined
	)

	ProjectDeletionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_deletion_count",
			Help: "Total number of project deletion attempts",
		},
		[]string{"result"}, // result: success, denied, error
	)

	PermissionDeniedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permission_denied_count",
			Help: "Total number of storage writes rejected by access control",
		},
		[]string{"operation"},
	)

	CatalogCacheCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_count",
			Help: "Milestone catalog cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementReportWrite(operation, result string) {
	ReportWriteCount.WithLabelValues(operation, result).Inc()
}

func IncrementCompletionDecision(outcome string) {
	CompletionDecisionCount.WithLabelValues(outcome).Inc()
}

func IncrementProjectDeletion(result string) {
	ProjectDeletionCount.WithLabelValues(result).Inc()
}

func IncrementPermissionDenied(operation string) {
	PermissionDeniedCount.WithLabelValues(operation).Inc()
}

func IncrementCatalogCache(result string) {
	CatalogCacheCount.WithLabelValues(result).Inc()
}
