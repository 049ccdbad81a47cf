package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Page metrics
	PageRendersTotal     *prometheus.CounterVec
	BillingTogglesTotal  *prometheus.CounterVec
	BackNavigationsTotal *prometheus.CounterVec

	// Render cache metrics
	RenderCacheHitsTotal   prometheus.Counter
	RenderCacheMissesTotal prometheus.Counter

	// Catalog metrics
	CatalogPlans prometheus.Gauge
}

// NewMetrics creates and registers all metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricing_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		PageRendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_page_renders_total",
				Help: "Total number of pricing page renders",
			},
			[]string{"cycle", "format"},
		),
		BillingTogglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_billing_toggles_total",
				Help: "Total number of billing cycle toggles by target cycle",
			},
			[]string{"to"},
		),
		BackNavigationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_back_navigations_total",
				Help: "Total number of back navigations by source control",
			},
			[]string{"source"},
		),

		RenderCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pricing_render_cache_hits_total",
				Help: "Total number of rendered page cache hits",
			},
		),
		RenderCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pricing_render_cache_misses_total",
				Help: "Total number of rendered page cache misses",
			},
		),

		CatalogPlans: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pricing_catalog_plans",
				Help: "Number of plans in the loaded catalog",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PageRendersTotal,
		m.BillingTogglesTotal,
		m.BackNavigationsTotal,
		m.RenderCacheHitsTotal,
		m.RenderCacheMissesTotal,
		m.CatalogPlans,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments requests, labelled by route template so
// query strings and unknown paths don't inflate cardinality
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, gatherer prometheus.Gatherer) {
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
