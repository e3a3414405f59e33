package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/devlink-social/devlink/pkg/api"
	"github.com/devlink-social/devlink/pkg/auth"
	"github.com/devlink-social/devlink/pkg/config"
	"github.com/devlink-social/devlink/pkg/media"
	"github.com/devlink-social/devlink/pkg/middleware"
	"github.com/devlink-social/devlink/pkg/observability"
	"github.com/devlink-social/devlink/pkg/storage"
	"github.com/devlink-social/devlink/pkg/storage/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting DevLink API server")

	store, err := postgres.NewPostgresStorage(cfg.Storage)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize postgres storage")
		os.Exit(1)
	}
	logger.Info("Postgres storage initialized, migrations applied")

	// Redis only backs the login rate limiter; the API runs without it
	var redisClient *redis.Client
	var limiter *middleware.DistributedRateLimiter
	if cfg.Storage.RedisURL != "" {
		redisClient, err = storage.NewRedisClient(cfg.Storage)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, login rate limiting disabled")
		} else {
			limiter = middleware.NewDistributedRateLimiter(redisClient, middleware.LoginRateLimitConfig(), "login")
			logger.Info("Login rate limiter enabled")
		}
	} else {
		logger.Warn("No redis URL configured, login rate limiting disabled")
	}

	mediaStore, err := media.NewS3Store(cfg.Media)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize media store")
		os.Exit(1)
	}
	logger.Infof("Media store initialized on bucket %s", cfg.Media.Bucket)

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.SecretKey))
	if err != nil {
		logger.WithError(err).Error("Failed to initialize token service")
		os.Exit(1)
	}
	cookies := auth.NewCookieWriter(cfg.Auth.Production)

	registry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	server := api.NewServer(api.ServerOptions{
		Store:          store,
		Tokens:         tokens,
		Cookies:        cookies,
		Media:          mediaStore,
		Logger:         logger,
		Metrics:        metrics,
		Limiter:        limiter,
		AdminUsername:  cfg.Auth.AdminUsername,
		AdminPassword:  cfg.Auth.AdminPassword,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Probes and metrics live on their own port so they are never exposed
	// through the public API surface.
	health := observability.NewHealthChecker(store.DB(), redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", observability.Handler(registry))
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	if metrics != nil {
		go samplePoolStats(store, metrics)
	}

	var g errgroup.Group
	g.Go(func() error {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("API server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server failed: %w", err)
		}
		return nil
	})

	shutdown := observability.NewShutdownManager(logger, apiServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(healthServer.Shutdown)
	shutdown.RegisterShutdownFunc(func(context.Context) error { return store.Close() })
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error { return redisClient.Close() })
	}

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}

// samplePoolStats exports the connection pool gauges
func samplePoolStats(store *postgres.PostgresStorage, metrics *observability.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		stats := store.DB().Stats()
		metrics.DBConnectionsActive.Set(float64(stats.InUse))
		metrics.DBConnectionsIdle.Set(float64(stats.Idle))
	}
}
