package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the Prometheus metrics for the serving core
type Metrics struct {
	// Request counters
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Business logic metrics
	AdsServed            *prometheus.CounterVec
	NoFills              *prometheus.CounterVec
	TrackingEvents       *prometheus.CounterVec
	BudgetExhaustedSkips prometheus.Counter
	DatabaseQueries      *prometheus.CounterVec
	DatabaseErrors       *prometheus.CounterVec

	// Health check metrics
	HealthCheckStatus *prometheus.GaugeVec
}

// NewPrometheusMetrics creates and registers all Prometheus metrics
func NewPrometheusMetrics() *Metrics {
	metrics := &Metrics{
		// HTTP request metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adserver_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adserver_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "adserver_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
			[]string{"method", "endpoint"},
		),

		// Business metrics
		AdsServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adserver_ads_served_total",
				Help: "Total number of ads served",
			},
			[]string{"placement", "country"},
		),

		NoFills: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adserver_no_fills_total",
				Help: "Total number of placement requests answered with no-fill",
			},
			[]string{"placement"},
		),

		TrackingEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adserver_tracking_events_total",
				Help: "Total number of impression/click tracking submissions",
			},
			[]string{"event", "outcome"},
		),

		BudgetExhaustedSkips: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "adserver_budget_exhausted_skips_total",
				Help: "Reservations lost to a budget cap raced by a concurrent request",
			},
		),

		DatabaseQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adserver_database_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table"},
		),

		DatabaseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adserver_database_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation", "error_type"},
		),

		// Health check metrics
		HealthCheckStatus: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "adserver_health_check_status",
				Help: "Health check status (1 = healthy, 0 = unhealthy)",
			},
			[]string{"check_type"},
		),
	}

	return metrics
}

// RecordHTTPRequest records an HTTP request with its duration and status
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordAdServed records a successful ad selection
func (m *Metrics) RecordAdServed(placement, country string) {
	if country == "" {
		country = "unknown"
	}
	m.AdsServed.WithLabelValues(placement, country).Inc()
}

// RecordNoFill records a placement request that nothing could serve
func (m *Metrics) RecordNoFill(placement string) {
	m.NoFills.WithLabelValues(placement).Inc()
}

// RecordTrackingEvent records an impression or click submission outcome
func (m *Metrics) RecordTrackingEvent(event, outcome string) {
	m.TrackingEvents.WithLabelValues(event, outcome).Inc()
}

// RecordBudgetExhaustedSkip records a candidate skipped because its budget
// raced to exhaustion between snapshot and reservation
func (m *Metrics) RecordBudgetExhaustedSkip() {
	m.BudgetExhaustedSkips.Inc()
}

// RecordDatabaseQuery records a database query
func (m *Metrics) RecordDatabaseQuery(operation, table string) {
	m.DatabaseQueries.WithLabelValues(operation, table).Inc()
}

// RecordDatabaseError records a database error
func (m *Metrics) RecordDatabaseError(operation, errorType string) {
	m.DatabaseErrors.WithLabelValues(operation, errorType).Inc()
}

// SetHealthCheckStatus sets the health check status
func (m *Metrics) SetHealthCheckStatus(checkType string, healthy bool) {
	status := 0.0
	if healthy {
		status = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(checkType).Set(status)
}

// IncRequestsInFlight increments the in-flight requests counter
func (m *Metrics) IncRequestsInFlight(method, endpoint string) {
	m.HTTPRequestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// DecRequestsInFlight decrements the in-flight requests counter
func (m *Metrics) DecRequestsInFlight(method, endpoint string) {
	m.HTTPRequestsInFlight.WithLabelValues(method, endpoint).Dec()
}
