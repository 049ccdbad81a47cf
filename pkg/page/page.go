package page

import (
	"sync"

	"github.com/platinummonkey/pricing-page/pkg/pricing"
	"github.com/platinummonkey/pricing-page/pkg/visibility"
)

// Option configures a Page
type Option func(*Page)

// WithObserver sets the viewport observer handed to each card's detector.
// Without one, cards are treated as visible once mounted.
func WithObserver(observer visibility.Observer) Option {
	return func(p *Page) {
		p.observer = observer
	}
}

// WithCycle sets the initial billing cycle
func WithCycle(cycle pricing.BillingCycle) Option {
	return func(p *Page) {
		p.cycle = cycle
	}
}

// Page is the pricing page. It owns the only mutable state, the billing
// cycle, and hands read-only views of it to the toggle and the cards.
type Page struct {
	mu       sync.RWMutex
	cycle    pricing.BillingCycle
	catalog  *pricing.Catalog
	meta     Metadata
	onBack   func()
	observer visibility.Observer
}

// New creates a page starting on monthly billing. A nil catalog means the
// default catalog.
func New(catalog *pricing.Catalog, meta Metadata, onBack func(), opts ...Option) *Page {
	if catalog == nil {
		catalog = pricing.DefaultCatalog()
	}

	p := &Page{
		cycle:   pricing.DefaultBillingCycle,
		catalog: catalog,
		meta:    meta.WithDefaults(),
		onBack:  onBack,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.SetCycle(p.cycle)
	return p
}

// Cycle returns the current billing cycle
func (p *Page) Cycle() pricing.BillingCycle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cycle
}

// SetCycle replaces the current billing cycle. Unknown values fall back
// to monthly.
func (p *Page) SetCycle(cycle pricing.BillingCycle) {
	if cycle != pricing.Annual {
		cycle = pricing.Monthly
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cycle = cycle
}

// Toggle flips the billing cycle and returns the new one
func (p *Page) Toggle() pricing.BillingCycle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cycle = p.cycle.Toggle()
	return p.cycle
}

// ToggleControl returns the switch bound to this page's cycle
func (p *Page) ToggleControl() ToggleControl {
	return ToggleControl{Cycle: p.Cycle(), OnToggle: p.SetCycle}
}

// Back invokes the back-navigation callback, if any
func (p *Page) Back() {
	if p.onBack != nil {
		p.onBack()
	}
}

// Metadata returns the page's document metadata
func (p *Page) Metadata() Metadata {
	return p.meta
}

// Catalog returns the plans shown on the page
func (p *Page) Catalog() *pricing.Catalog {
	return p.catalog
}

// Cards builds one card per plan, in catalog order, for the current cycle.
// Cards are not mounted.
func (p *Page) Cards() []*Card {
	cycle := p.Cycle()

	cards := make([]*Card, 0, len(p.catalog.Plans))
	for i, plan := range p.catalog.Plans {
		cards = append(cards, newCard(plan, cycle, i, p.observer))
	}
	return cards
}
