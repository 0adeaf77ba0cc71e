// Command japicc-reportd serves previously computed comparison results as
// read-only JSON over HTTP, backed by the dump history store and the
// optional result cache.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	_ "github.com/mattn/go-sqlite3"

	"github.com/platinummonkey/japicc/pkg/config"
	"github.com/platinummonkey/japicc/pkg/dump"
	"github.com/platinummonkey/japicc/pkg/observability"
	"github.com/platinummonkey/japicc/pkg/report"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("japicc-reportd: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout).
		WithField("service", "japicc-reportd")

	db, err := sql.Open("sqlite3", cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open dump store: %w", err)
	}
	defer db.Close()

	store, err := dump.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to initialize dump store: %w", err)
	}

	var cache *dump.ResultCache
	if cfg.Cache.Enabled {
		c, err := dump.NewResultCache(cfg.Cache.RedisURL, cfg.Cache.EntryTTL)
		if err != nil {
			logger.WithError(err).Warn("result cache unavailable, serving without it")
		} else {
			cache = c
			defer cache.Close()
		}
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
	}, logger)
	if err != nil {
		logger.WithError(err).Warn("failed to initialize tracing, continuing without it")
	}
	defer func() {
		if err := observability.ShutdownOTel(context.Background(), providers, logger); err != nil {
			logger.WithError(err).Warn("failed to shut down tracing cleanly")
		}
	}()

	router := mux.NewRouter()
	router.Use(observability.HTTPMetricsMiddleware(metrics))
	report.NewServer(store, cache).RegisterRoutes(router)

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, nil))
	observability.RegisterMetricsEndpoint(healthMux, registry)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, server, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})

	go func() {
		logger.WithField("addr", healthServer.Addr).Info("health/metrics server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("health server failed")
		}
	}()

	go func() {
		logger.WithField("addr", server.Addr).Info("report server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("report server failed")
		}
	}()

	return shutdown.WaitForShutdown()
}
