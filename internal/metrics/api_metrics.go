package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Backend API and store metrics, registered on first use
var (
	apiMetricsOnce sync.Once

	apiRequestsTotal    *prometheus.CounterVec
	apiRequestDuration  *prometheus.HistogramVec
	storeOperationTotal *prometheus.CounterVec
	syncRecordsTotal    *prometheus.CounterVec
)

// Store operation results
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"
	ResultFallback = "fallback"
)

func initializeAPIMetrics() {
	apiMetricsOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimsdesk_api_requests_total",
				Help: "Total number of requests sent to the claims backend",
			},
			[]string{"method", "endpoint", "status_code"},
		)

		apiRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "claimsdesk_api_request_duration_seconds",
				Help:    "Time spent waiting on the claims backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		)

		storeOperationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimsdesk_store_operations_total",
				Help: "Store operations by outcome",
			},
			[]string{"store", "operation", "result"},
		)

		syncRecordsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimsdesk_sync_records_total",
				Help: "Rows exported to the spreadsheet",
			},
			[]string{"kind"},
		)

		GetInstance().registry.MustRegister(
			apiRequestsTotal,
			apiRequestDuration,
			storeOperationTotal,
			syncRecordsTotal,
		)
	})
}

// RecordAPIRequest records one backend call. statusCode 0 means the transport failed.
func RecordAPIRequest(method, endpoint string, startTime time.Time, statusCode int) {
	if !BusinessEnabled() {
		return
	}
	initializeAPIMetrics()

	apiRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(startTime).Seconds())
}

// RecordStoreOperation records the outcome of a store operation
func RecordStoreOperation(store, operation, result string) {
	if !BusinessEnabled() {
		return
	}
	initializeAPIMetrics()

	storeOperationTotal.WithLabelValues(store, operation, result).Inc()
}

// RecordSyncRecords adds exported row counts for a sync kind
func RecordSyncRecords(kind string, count int) {
	if !BusinessEnabled() || count <= 0 {
		return
	}
	initializeAPIMetrics()

	syncRecordsTotal.WithLabelValues(kind).Add(float64(count))
}
