package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Storage metrics
	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec
	StorageErrorsTotal       *prometheus.CounterVec

	// Media store metrics
	MediaUploadsTotal *prometheus.CounterVec
	MediaUploadBytes  prometheus.Counter

	// Auth metrics
	LoginsTotal        *prometheus.CounterVec
	TokenRejectedTotal *prometheus.CounterVec

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "devlink_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		StorageOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_storage_operations_total",
				Help: "Total number of storage operations",
			},
			[]string{"operation"},
		),
		StorageOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "devlink_storage_operation_duration_seconds",
				Help:    "Storage operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		StorageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_storage_errors_total",
				Help: "Total number of storage errors",
			},
			[]string{"operation"},
		),
		MediaUploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_media_uploads_total",
				Help: "Total number of media uploads",
			},
			[]string{"folder", "status"},
		),
		MediaUploadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "devlink_media_upload_bytes_total",
				Help: "Total bytes uploaded to the media store",
			},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"principal", "status"},
		),
		TokenRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_tokens_rejected_total",
				Help: "Total number of rejected session tokens",
			},
			[]string{"scheme"},
		),
		DBConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "devlink_db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "devlink_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StorageOperationsTotal,
		m.StorageOperationDuration,
		m.StorageErrorsTotal,
		m.MediaUploadsTotal,
		m.MediaUploadBytes,
		m.LoginsTotal,
		m.TokenRejectedTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
	)

	return m
}

// Handler returns the Prometheus metrics HTTP handler for a registry
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps an HTTP handler with request metrics
func (m *Metrics) InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration.Seconds())
	})
}

// ObserveStorageOperation records a storage operation's outcome and duration
func (m *Metrics) ObserveStorageOperation(operation string, start time.Time, err error) {
	m.StorageOperationsTotal.WithLabelValues(operation).Inc()
	m.StorageOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.StorageErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
