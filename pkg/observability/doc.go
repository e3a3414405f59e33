// Package observability provides logging, metrics, and health checks.
//
// # Logging
//
// Structured JSON logging backed by stdlib slog:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("user_id", id).Info("profile updated")
//
// # Metrics
//
// Prometheus metrics are registered against a caller-supplied registry and
// exposed on the health port:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	mux.Handle("/metrics", observability.Handler(registry))
//
// # Health Checks
//
// HealthChecker serves liveness (/healthz) and readiness (/readyz) probes.
// Readiness pings PostgreSQL and, when configured, Redis; a Redis outage
// degrades rather than fails readiness since the rate limiter fails open.
package observability
