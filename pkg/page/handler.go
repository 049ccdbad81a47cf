package page

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"

	"github.com/platinummonkey/pricing-page/pkg/httputil"
	"github.com/platinummonkey/pricing-page/pkg/observability"
	"github.com/platinummonkey/pricing-page/pkg/pricing"
	"github.com/platinummonkey/pricing-page/pkg/visibility"
)

// Back navigation sources
const (
	SourceHeader = "header"
	SourceCTA    = "cta"
)

// BackFunc is called when a visitor leaves the page through the back button
// or a card's call to action
type BackFunc func(ctx context.Context, source string)

// HandlerConfig configures a Handler
type HandlerConfig struct {
	Catalog  *pricing.Catalog
	Metadata Metadata
	Renderer *Renderer
	Observer visibility.Observer

	// HomeURL is where back navigation lands
	HomeURL string
	OnBack  BackFunc

	// RateLimit is requests per minute per client IP on toggle and back.
	// Zero disables limiting.
	RateLimit   int
	CORSOrigins []string

	Metrics *observability.Metrics
	Logger  *observability.Logger
}

// Handler serves the pricing page and its JSON view
type Handler struct {
	cfg     HandlerConfig
	catalog atomic.Pointer[pricing.Catalog]
}

// NewHandler creates a page handler
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Catalog == nil {
		cfg.Catalog = pricing.DefaultCatalog()
	}
	if cfg.Renderer == nil {
		return nil, errors.New("page handler requires a renderer")
	}
	if cfg.HomeURL == "" {
		cfg.HomeURL = "/"
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	cfg.Metadata = cfg.Metadata.WithDefaults()

	h := &Handler{cfg: cfg}
	h.SetCatalog(cfg.Catalog)
	return h, nil
}

// Catalog returns the catalog currently served
func (h *Handler) Catalog() *pricing.Catalog {
	return h.catalog.Load()
}

// SetCatalog swaps the served catalog and drops pages rendered from the
// previous one. A page rendered concurrently with the swap may stay cached
// until its TTL.
func (h *Handler) SetCatalog(catalog *pricing.Catalog) {
	if catalog == nil {
		return
	}

	h.catalog.Store(catalog)
	h.cfg.Renderer.Purge()
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.CatalogPlans.Set(float64(len(catalog.Plans)))
	}
}

// RegisterRoutes mounts the page routes on router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/pricing", h.handlePage).Methods(http.MethodGet, http.MethodHead)

	// Actions are registered with full paths rather than on a /pricing
	// subrouter so a wrong method on one action still reports 405.
	limit := func(next http.Handler) http.Handler { return next }
	if h.cfg.RateLimit > 0 {
		limit = httprate.Limit(
			h.cfg.RateLimit,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				httputil.WriteTooManyRequests(w, "too many requests, slow down")
			}),
		)
	}
	router.Handle("/pricing/toggle", limit(http.HandlerFunc(h.handleToggle))).Methods(http.MethodPost)
	router.Handle("/pricing/back", limit(http.HandlerFunc(h.handleBack))).Methods(http.MethodGet, http.MethodPost)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", httputil.RequestIDHeader},
		ExposedHeaders: []string{httputil.RequestIDHeader},
		MaxAge:         300,
	}))
	api.HandleFunc("/pricing", h.handleAPI).Methods(http.MethodGet, http.MethodOptions)
}

// NewRouter returns a router with the page routes registered
func (h *Handler) NewRouter() *mux.Router {
	router := mux.NewRouter()
	if h.cfg.Metrics != nil {
		router.Use(observability.HTTPMetricsMiddleware(h.cfg.Metrics))
	}
	router.Handle("/", http.RedirectHandler("/pricing", http.StatusFound)).Methods(http.MethodGet)
	h.RegisterRoutes(router)
	return router
}

// newPage builds the per-request page for a cycle
func (h *Handler) newPage(cycle pricing.BillingCycle, onBack func()) *Page {
	return New(h.Catalog(), h.cfg.Metadata, onBack,
		WithCycle(cycle),
		WithObserver(h.cfg.Observer),
	)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	cycle, ok := h.requestCycle(w, r.URL.Query().Get("billing"))
	if !ok {
		return
	}

	body, err := h.cfg.Renderer.Render(r.Context(), h.newPage(cycle, nil))
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to render pricing page")
		httputil.WriteInternalError(w, errors.New("failed to render pricing page"))
		return
	}

	h.recordRender(cycle, "html")
	_ = httputil.WriteHTML(w, http.StatusOK, body)
}

func (h *Handler) handleAPI(w http.ResponseWriter, r *http.Request) {
	cycle, ok := h.requestCycle(w, r.URL.Query().Get("billing"))
	if !ok {
		return
	}

	h.recordRender(cycle, "json")
	httputil.WriteJSONOrError(w, http.StatusOK, h.newPage(cycle, nil).Snapshot(), "failed to encode pricing")
}

// handleToggle inverts the submitted cycle and redirects to the page for it
func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("billing")
	if err := r.ParseForm(); err == nil && r.PostForm.Has("billing") {
		current = r.PostForm.Get("billing")
	}

	cycle, ok := h.requestCycle(w, current)
	if !ok {
		return
	}

	page := h.newPage(cycle, nil)
	next := page.Toggle()

	if h.cfg.Metrics != nil {
		h.cfg.Metrics.BillingTogglesTotal.WithLabelValues(next.String()).Inc()
	}
	observability.FromContext(r.Context()).WithFields(map[string]interface{}{
		"from": cycle.String(),
		"to":   next.String(),
	}).Debug("Billing cycle toggled")

	http.Redirect(w, r, pageURL(next), http.StatusSeeOther)
}

// handleBack reports the back navigation, then sends the visitor home
func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	source := strings.ToLower(r.URL.Query().Get("source"))
	switch source {
	case "":
		source = SourceHeader
	case SourceHeader, SourceCTA:
	default:
		httputil.WriteBadRequest(w, "source must be header or cta")
		return
	}

	ctx := r.Context()
	page := h.newPage(pricing.DefaultBillingCycle, func() {
		if h.cfg.Metrics != nil {
			h.cfg.Metrics.BackNavigationsTotal.WithLabelValues(source).Inc()
		}
		if h.cfg.OnBack != nil {
			h.cfg.OnBack(ctx, source)
		}
	})
	page.Back()

	http.Redirect(w, r, h.cfg.HomeURL, http.StatusSeeOther)
}

// requestCycle parses a billing value, writing a 400 on failure
func (h *Handler) requestCycle(w http.ResponseWriter, value string) (pricing.BillingCycle, bool) {
	cycle, err := pricing.ParseBillingCycle(value)
	if err != nil {
		httputil.WriteDetailedError(w, http.StatusBadRequest, err, map[string]string{
			"billing": value,
			"allowed": "monthly,annual",
		})
		return "", false
	}
	return cycle, true
}

func (h *Handler) recordRender(cycle pricing.BillingCycle, format string) {
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.PageRendersTotal.WithLabelValues(cycle.String(), format).Inc()
	}
}

// pageURL is the page address for a cycle. Monthly is the default and gets
// the bare path.
func pageURL(cycle pricing.BillingCycle) string {
	if !cycle.IsAnnual() {
		return "/pricing"
	}
	return "/pricing?" + url.Values{"billing": {cycle.String()}}.Encode()
}
