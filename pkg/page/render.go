package page

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/platinummonkey/pricing-page/pkg/observability"
	"github.com/platinummonkey/pricing-page/pkg/pricing"
)

//go:embed templates/pricing.html
var templateFS embed.FS

// Heights of the bars in the dashboard mockup, in percent
var dashboardBars = []int{40, 70, 50, 90, 60, 85, 75}

// RendererConfig configures a Renderer
type RendererConfig struct {
	// CacheSize is the number of rendered pages kept. Zero disables caching.
	CacheSize int
	// CacheTTL bounds how long a rendered page is reused. Zero means no expiry.
	CacheTTL time.Duration
	// Metrics is optional
	Metrics *observability.Metrics
}

// Renderer turns a Page into HTML. Cached output is keyed by billing cycle
// alone, so a caching Renderer must only ever render pages sharing one
// catalog and one set of metadata.
type Renderer struct {
	template *template.Template
	cache    *lru.LRU[pricing.BillingCycle, []byte]
	metrics  *observability.Metrics
}

// NewRenderer parses the embedded page template
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	tmpl, err := template.New("pricing.html").Funcs(template.FuncMap{
		"chartBars": func() []int { return dashboardBars },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}).ParseFS(templateFS, "templates/pricing.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	r := &Renderer{template: tmpl, metrics: cfg.Metrics}
	if cfg.CacheSize > 0 {
		r.cache = lru.NewLRU[pricing.BillingCycle, []byte](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return r, nil
}

// Render renders the page for its current cycle
func (r *Renderer) Render(ctx context.Context, p *Page) ([]byte, error) {
	cycle := p.Cycle()

	_, span := observability.Tracer().Start(ctx, "page.Render")
	defer span.End()
	span.SetAttributes(attribute.String("pricing.cycle", cycle.String()))

	if body, ok := r.cached(cycle); ok {
		span.SetAttributes(attribute.Bool("pricing.cache_hit", true))
		return body, nil
	}

	body, err := r.RenderView(p.Snapshot())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}

	if r.cache != nil {
		r.cache.Add(cycle, body)
	}
	return body, nil
}

// RenderView executes the template for a snapshot, bypassing the cache
func (r *Renderer) RenderView(view View) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.template.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

// Purge drops every cached page
func (r *Renderer) Purge() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

// CachedPages reports how many rendered pages are cached
func (r *Renderer) CachedPages() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

func (r *Renderer) cached(cycle pricing.BillingCycle) ([]byte, bool) {
	if r.cache == nil {
		return nil, false
	}

	body, ok := r.cache.Get(cycle)
	if r.metrics != nil {
		if ok {
			r.metrics.RenderCacheHitsTotal.Inc()
		} else {
			r.metrics.RenderCacheMissesTotal.Inc()
		}
	}
	return body, ok
}
