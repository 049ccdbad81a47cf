package page

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pricing-page/pkg/httputil"
	"github.com/platinummonkey/pricing-page/pkg/observability"
)

type backCall struct {
	source string
}

type testServer struct {
	router  http.Handler
	metrics *observability.Metrics
	backs   []backCall
}

func newTestServer(t *testing.T, mutate func(*HandlerConfig)) *testServer {
	t.Helper()

	ts := &testServer{metrics: observability.NewMetrics(prometheus.NewRegistry())}
	renderer, err := NewRenderer(RendererConfig{CacheSize: 4, Metrics: ts.metrics})
	require.NoError(t, err)

	cfg := HandlerConfig{
		Catalog:  pricedCatalog(),
		Renderer: renderer,
		HomeURL:  "https://dostuff.com/",
		OnBack: func(ctx context.Context, source string) {
			ts.backs = append(ts.backs, backCall{source: source})
		},
		Metrics: ts.metrics,
		Logger:  observability.NewLogger(observability.ErrorLevel, &strings.Builder{}),
	}
	if mutate != nil {
		mutate(&cfg)
	}

	h, err := NewHandler(cfg)
	require.NoError(t, err)
	ts.router = h.NewRouter()
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func TestNewHandler_RequiresRenderer(t *testing.T) {
	_, err := NewHandler(HandlerConfig{})
	assert.Error(t, err)
}

func TestHandler_Page(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("defaults to monthly", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/pricing", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `<span class="suffix">/mo</span>`)
	})

	t.Run("annual via query", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/pricing?billing=ANNUAL", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "~$33/mo equivalent")
	})

	t.Run("invalid billing", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/pricing?billing=weekly", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "invalid billing cycle")
		assert.Equal(t, "weekly", resp.Details["billing"])
	})

	t.Run("root redirects", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/pricing", rec.Header().Get("Location"))
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.PageRendersTotal.WithLabelValues("monthly", "html")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.PageRendersTotal.WithLabelValues("annual", "html")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.CatalogPlans))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/pricing", "400")))
}

func TestHandler_Toggle(t *testing.T) {
	ts := newTestServer(t, nil)

	toggle := func(current string) *httptest.ResponseRecorder {
		form := url.Values{"billing": {current}}
		req := httptest.NewRequest(http.MethodPost, "/pricing/toggle", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return ts.do(req)
	}

	rec := toggle("monthly")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pricing?billing=annual", rec.Header().Get("Location"))

	rec = toggle("annual")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pricing", rec.Header().Get("Location"))

	rec = toggle("")
	assert.Equal(t, "/pricing?billing=annual", rec.Header().Get("Location"))

	rec = toggle("yearly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Query string works when no form body is sent
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/pricing/toggle?billing=annual", nil))
	assert.Equal(t, "/pricing", rec.Header().Get("Location"))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec = ts.do(httptest.NewRequest(method, "/pricing/toggle", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.BillingTogglesTotal.WithLabelValues("annual")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.BillingTogglesTotal.WithLabelValues("monthly")))
}

func TestHandler_Back(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, target := range []string{"/pricing/back", "/pricing/back?source=cta", "/pricing/back?source=HEADER"} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Equal(t, "https://dostuff.com/", rec.Header().Get("Location"))
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/pricing/back?source=footer", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec = ts.do(httptest.NewRequest(method, "/pricing/back", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}

	assert.Equal(t, []backCall{{SourceHeader}, {SourceCTA}, {SourceHeader}}, ts.backs)
	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.BackNavigationsTotal.WithLabelValues("header")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.BackNavigationsTotal.WithLabelValues("cta")))
}

func TestHandler_API(t *testing.T) {
	ts := newTestServer(t, func(cfg *HandlerConfig) {
		cfg.CORSOrigins = []string{"https://dostuff.com"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing?billing=annual", nil)
	req.Header.Set("Origin", "https://dostuff.com")
	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://dostuff.com", rec.Header().Get("Access-Control-Allow-Origin"))

	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "annual", view.Cycle)
	assert.Equal(t, DefaultTitle, view.Metadata.Title)
	require.Len(t, view.Cards, 2)
	assert.Equal(t, "$399/yr", view.Cards[1].PriceText)
	require.NotNil(t, view.Cards[1].Pricing.MonthlyEquivalent)
	assert.Equal(t, 33, *view.Cards[1].Pricing.MonthlyEquivalent)
	assert.Equal(t, "Save 33%", view.Cards[1].Pricing.SavingsBadge)
	assert.True(t, view.Cards[1].Visible)

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/pricing", nil)
		req.Header.Set("Origin", "https://dostuff.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := ts.do(req)
		assert.Equal(t, "https://dostuff.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := ts.do(req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("invalid billing", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/pricing?billing=daily", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_RateLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *HandlerConfig) {
		cfg.RateLimit = 2
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/pricing/toggle?billing=monthly", nil)
		req.RemoteAddr = "203.0.113.7:4321"
		codes = append(codes, ts.do(req).Code)
	}
	assert.Equal(t, []int{http.StatusSeeOther, http.StatusSeeOther, http.StatusTooManyRequests}, codes)

	// The page itself is not limited
	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	assert.Equal(t, http.StatusOK, ts.do(req).Code)
}

func TestHandler_SetCatalog(t *testing.T) {
	ts := newTestServer(t, nil)
	renderer, err := NewRenderer(RendererConfig{CacheSize: 4, Metrics: ts.metrics})
	require.NoError(t, err)

	h, err := NewHandler(HandlerConfig{Renderer: renderer, Metrics: ts.metrics})
	require.NoError(t, err)
	router := h.NewRouter()

	get := func() string {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pricing", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	assert.NotContains(t, get(), "$49")
	assert.Equal(t, 1, renderer.CachedPages())

	h.SetCatalog(pricedCatalog())
	assert.Equal(t, 0, renderer.CachedPages())
	assert.Contains(t, get(), `<span class="amount">$49</span>`)

	h.SetCatalog(nil)
	require.NotNil(t, h.Catalog())
	assert.Equal(t, "$49", h.Catalog().Plans[1].Price.String())
}
