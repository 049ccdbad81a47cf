package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/pricing-page/pkg/config"
	"github.com/platinummonkey/pricing-page/pkg/httputil"
	"github.com/platinummonkey/pricing-page/pkg/observability"
	"github.com/platinummonkey/pricing-page/pkg/page"
	"github.com/platinummonkey/pricing-page/pkg/pricing"
)

func newServeCommand() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pricing page and health servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(envFiles...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, os.Stdout)
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load before reading configuration (default .env)")

	return cmd
}

// app is the wired service, without listeners
type app struct {
	logger   *observability.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	renderer *page.Renderer
	pages    *page.Handler
	checker  *observability.HealthChecker

	handler       http.Handler
	healthHandler http.Handler
}

// newApp wires catalog, renderer, handlers and health checks from cfg
func newApp(cfg *config.Config, logger *observability.Logger) (*app, error) {
	catalog, err := loadCatalog(cfg.Page.CatalogFile)
	if err != nil {
		return nil, err
	}
	for _, warning := range catalog.Warnings() {
		logger.WithField("catalog", cfg.Page.CatalogFile).Warn(warning)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	renderer, err := page.NewRenderer(page.RendererConfig{
		CacheSize: cfg.Page.CacheSize,
		CacheTTL:  cfg.Page.CacheTTL,
		Metrics:   metrics,
	})
	if err != nil {
		return nil, err
	}

	handler, err := page.NewHandler(page.HandlerConfig{
		Catalog:     catalog,
		Metadata:    cfg.Metadata(),
		Renderer:    renderer,
		HomeURL:     cfg.Page.HomeURL,
		OnBack:      logBack,
		RateLimit:   cfg.Server.RateLimit,
		CORSOrigins: cfg.Server.CORSOrigins,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		logger:   logger,
		registry: registry,
		metrics:  metrics,
		renderer: renderer,
		pages:    handler,
		checker:  observability.NewHealthChecker(Version),
	}

	a.checker.AddCheck("catalog", func(ctx context.Context) error {
		if len(handler.Catalog().Plans) == 0 {
			return errors.New("catalog has no plans")
		}
		return nil
	})
	a.checker.AddCheck("renderer", func(ctx context.Context) error {
		_, err := renderer.RenderView(page.New(handler.Catalog(), cfg.Metadata(), nil).Snapshot())
		return err
	})

	a.handler = httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.SecurityHeadersMiddleware,
		httputil.MaxBytesMiddleware(64<<10),
	)(handler.NewRouter())

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, a.checker)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	a.healthHandler = healthMux

	return a, nil
}

// watchCatalog swaps the served catalog whenever path changes. A file that
// fails to load is logged and the previous catalog keeps serving.
func (a *app) watchCatalog(path string) (*pricing.CatalogWatcher, error) {
	logger := a.logger.WithField("catalog", path)
	return pricing.WatchCatalog(path,
		func(c *pricing.Catalog) {
			for _, warning := range c.Warnings() {
				logger.Warn(warning)
			}
			a.pages.SetCatalog(c)
			logger.WithField("plans", len(c.Plans)).Info("Catalog reloaded")
		},
		func(err error) {
			logger.WithError(err).Error("Catalog reload failed")
		},
	)
}

// logBack is the service's back-navigation hook
func logBack(ctx context.Context, source string) {
	observability.FromContext(ctx).WithField("source", source).Info("Visitor navigated back to home")
}

func loadCatalog(path string) (*pricing.Catalog, error) {
	if path == "" {
		return pricing.DefaultCatalog(), nil
	}
	return pricing.LoadCatalog(path)
}

// runServe runs the page server and the health server until ctx is done
func runServe(ctx context.Context, cfg *config.Config, logOutput io.Writer) error {
	logger := observability.NewLogger(cfg.Observability.LogLevel, logOutput)

	tp, err := observability.InitTracing(ctx, cfg.OTel(), logger)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		_ = observability.ShutdownTracing(context.Background(), tp, logger)
		return err
	}

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      otelhttp.NewHandler(a.handler, "pricing-page"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthServer := &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler:     a.healthHandler,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout)
	shutdown.Register("http", server.Shutdown)
	shutdown.Register("health", healthServer.Shutdown)
	shutdown.Register("tracing", func(ctx context.Context) error {
		return observability.ShutdownTracing(ctx, tp, logger)
	})

	var watcher *pricing.CatalogWatcher
	if cfg.Page.CatalogWatch {
		watcher, err = a.watchCatalog(cfg.Page.CatalogFile)
		if err != nil {
			_ = observability.ShutdownTracing(context.Background(), tp, logger)
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if watcher != nil {
		g.Go(func() error {
			logger.Infof("Watching catalog %s", watcher.Path())
			return watcher.Run(gctx)
		})
	}
	g.Go(func() error {
		logger.Infof("Pricing page listening on %s", server.Addr)
		return listen(server)
	})
	g.Go(func() error {
		logger.Infof("Health and metrics listening on %s", healthServer.Addr)
		return listen(healthServer)
	})
	g.Go(func() error {
		return shutdown.Wait(gctx)
	})

	return g.Wait()
}

func listen(server *http.Server) error {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server %s: %w", server.Addr, err)
	}
	return nil
}
