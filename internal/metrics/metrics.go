package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	businessEnabled atomic.Bool
	systemEnabled   atomic.Bool
)

// Configure turns metric families on or off. Disabled families record nothing.
func Configure(business, system bool) {
	businessEnabled.Store(business)
	systemEnabled.Store(system)
}

// BusinessEnabled reports whether console/API/store metrics are recorded
func BusinessEnabled() bool {
	return businessEnabled.Load()
}

// SystemEnabled reports whether host and runtime metrics are collected
func SystemEnabled() bool {
	return systemEnabled.Load()
}

// Handler serves the private registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(GetInstance().registry, promhttp.HandlerOpts{})
}

// Console HTTP metrics, registered on first use
var (
	consoleMetricsOnce sync.Once

	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPActiveConnections prometheus.Gauge
)

// initializeHTTPMetrics initializes console HTTP metrics
func initializeHTTPMetrics() {
	consoleMetricsOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimsdesk_console_requests_total",
				Help: "Total number of console HTTP requests",
			},
			[]string{"method", "route", "status"},
		)

		HTTPRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "claimsdesk_console_request_duration_seconds",
				Help:    "Duration of console HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		)

		HTTPActiveConnections = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "claimsdesk_console_active_connections",
				Help: "Number of in-flight console HTTP requests",
			},
		)

		GetInstance().registry.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPActiveConnections,
		)
	})
}

// RecordHTTPRequest records metrics for a console HTTP request
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if !BusinessEnabled() {
		return
	}
	initializeHTTPMetrics()

	status := strconv.Itoa(statusCode)

	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IncActiveConnections increments in-flight console requests
func IncActiveConnections() {
	if !BusinessEnabled() {
		return
	}
	initializeHTTPMetrics()

	HTTPActiveConnections.Inc()
}

// DecActiveConnections decrements in-flight console requests
func DecActiveConnections() {
	if !BusinessEnabled() {
		return
	}
	initializeHTTPMetrics()

	HTTPActiveConnections.Dec()
}
