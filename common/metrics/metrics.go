package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method and path.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosko_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kiosko_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed.
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kiosko_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// ProjectReplaces counts full-replace project writes, including
	// offline queue entries replayed by agents.
	ProjectReplaces = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kiosko_project_replaces_total",
			Help: "Total number of full-replace project updates",
		},
	)
)
