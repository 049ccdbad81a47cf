// Package observability provides structured logging, Prometheus metrics,
// OpenTelemetry tracing, health checks, and graceful shutdown hooks for the
// pricing page service.
//
// # Structured Logging
//
// Loggers are backed by logrus with a JSON formatter:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("cycle", "annual").Info("Rendered pricing page")
//
// Per-request loggers travel in the context:
//
//	ctx = observability.WithLogger(ctx, logger)
//	observability.FromContext(ctx).Warn("Unknown billing cycle")
//
// # Prometheus Metrics
//
//	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
//	metrics.PageRendersTotal.WithLabelValues("monthly", "html").Inc()
//
// HTTPMetricsMiddleware labels requests by their gorilla/mux route template.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker("v1.0.0")
//	checker.AddCheck("catalog", func(ctx context.Context) error { return nil })
//	observability.RegisterHealthRoutes(healthMux, checker)
//
// # OpenTelemetry
//
//	tp, err := observability.InitTracing(ctx, observability.OTelConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "pricing-page",
//		Insecure:    true,
//	}, logger)
//	defer observability.ShutdownTracing(ctx, tp, logger)
package observability
