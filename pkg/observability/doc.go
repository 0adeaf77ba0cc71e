// Package observability provides structured logging, Prometheus metrics,
// health checks, and a minimal OpenTelemetry tracing setup shared by the
// japicc CLI and its report server.
//
// # Structured Logging
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("library", "widget").Info("starting comparison")
//
// # Prometheus Metrics
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.ChecksTotal.WithLabelValues("binary", "incompatible").Inc()
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(sqliteDB, redisClient)
//	observability.RegisterHealthRoutes(mux, checker)
//
// # Tracing
//
//	providers, _ := observability.InitOTel(ctx, cfg, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
package observability
