// Package metrics provides Prometheus metrics for stockroom.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_exports_total",
			Help: "Total number of report exports",
		},
		[]string{"format", "result"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockroom_export_duration_seconds",
			Help:    "Time taken to render a report export",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"format"},
	)

	ExportBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_export_bytes_total",
			Help: "Total bytes of rendered exports",
		},
		[]string{"format"},
	)

	// Category metrics
	NormalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_category_normalizations_total",
			Help: "Total number of category labels normalized, by canonical category",
		},
		[]string{"category"},
	)

	// Delivery metrics
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_deliveries_total",
			Help: "Total number of report deliveries",
		},
		[]string{"format", "result"},
	)

	ScheduledRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_scheduled_runs_total",
			Help: "Total number of scheduled report runs",
		},
		[]string{"result"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockroom_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// RecordExport records one export render.
func RecordExport(format string, size int, duration time.Duration, err error) {
	ExportsTotal.WithLabelValues(format, Result(err)).Inc()
	ExportDuration.WithLabelValues(format).Observe(duration.Seconds())
	if err == nil {
		ExportBytes.WithLabelValues(format).Add(float64(size))
	}
}

// RecordNormalization records the canonical category a label resolved to.
func RecordNormalization(category string) {
	NormalizationsTotal.WithLabelValues(category).Inc()
}

// RecordDelivery records one delivery attempt.
func RecordDelivery(format string, err error) {
	DeliveriesTotal.WithLabelValues(format, Result(err)).Inc()
}

// RecordScheduledRun records the outcome of a scheduled run.
func RecordScheduledRun(err error) {
	ScheduledRunsTotal.WithLabelValues(Result(err)).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
