package page

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pricing-page/pkg/pricing"
	"github.com/platinummonkey/pricing-page/pkg/visibility"
)

func priced(text string) *pricing.Price {
	p := pricing.ParsePrice(text)
	return &p
}

func pricedCatalog() *pricing.Catalog {
	return &pricing.Catalog{Plans: []pricing.PlanDefinition{
		{
			ID:    "starter",
			Title: "Starter",
			Type:  pricing.PlanTypeFree,
			Price: pricing.Free,
			Features: []pricing.Feature{
				{Name: "Up to 3 Exams", Included: true},
				{Name: "Priority Support", Included: false},
			},
		},
		{
			ID:                  "pro-teacher",
			Title:               "Pro Teacher",
			Type:                pricing.PlanTypePro,
			Price:               pricing.Amount("$49"),
			OriginalPrice:       priced("$79"),
			AnnualPrice:         priced("$399"),
			AnnualOriginalPrice: priced("$599"),
			IsPopular:           true,
			Features:            []pricing.Feature{{Name: "Unlimited Exams", Included: true}},
		},
	}}
}

func TestToggleControl(t *testing.T) {
	var requested []pricing.BillingCycle
	onToggle := func(c pricing.BillingCycle) { requested = append(requested, c) }

	monthly := ToggleControl{Cycle: pricing.Monthly, OnToggle: onToggle}
	assert.Equal(t, "Switch to annual billing", monthly.AccessibleLabel())
	assert.Empty(t, monthly.HeaderBadge())
	monthly.Activate()

	annual := ToggleControl{Cycle: pricing.Annual, OnToggle: onToggle}
	assert.Equal(t, "Switch to monthly billing", annual.AccessibleLabel())
	assert.Equal(t, "Save 33%", annual.HeaderBadge())
	annual.Activate()

	assert.Equal(t, []pricing.BillingCycle{pricing.Annual, pricing.Monthly}, requested)
	assert.Equal(t, pricing.Monthly, monthly.Cycle, "activation does not mutate the control")

	require.NotPanics(t, func() { ToggleControl{}.Activate() })
}

func TestPage_DefaultsAndToggle(t *testing.T) {
	p := New(nil, Metadata{}, nil)

	assert.Equal(t, pricing.Monthly, p.Cycle())
	assert.Equal(t, DefaultMetadata(), p.Metadata())
	assert.Len(t, p.Catalog().Plans, 2)

	assert.Equal(t, pricing.Annual, p.Toggle())
	assert.Equal(t, pricing.Monthly, p.Toggle(), "toggling twice restores the cycle")

	require.NotPanics(t, p.Back)
}

func TestPage_WithCycleNormalizes(t *testing.T) {
	assert.Equal(t, pricing.Annual, New(nil, Metadata{}, nil, WithCycle(pricing.Annual)).Cycle())
	assert.Equal(t, pricing.Monthly, New(nil, Metadata{}, nil, WithCycle("weekly")).Cycle())
}

func TestPage_BackInvokesCallback(t *testing.T) {
	calls := 0
	p := New(nil, Metadata{}, func() { calls++ })

	p.Back()
	p.Back()
	assert.Equal(t, 2, calls)
}

func TestPage_MetadataOverride(t *testing.T) {
	p := New(nil, Metadata{Title: "Plans"}, nil)
	assert.Equal(t, "Plans", p.Metadata().Title)
	assert.Equal(t, DefaultCanonicalURL, p.Metadata().CanonicalURL)
}

func TestPage_CardsFollowCycle(t *testing.T) {
	p := New(pricedCatalog(), Metadata{}, nil)

	cards := p.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "$49/mo", cards[1].Pricing.PriceText())
	assert.Equal(t, "Save 37%", cards[1].Pricing.SavingsBadge)
	assert.Equal(t, pricing.Monthly, cards[1].Cycle())

	p.Toggle()
	cards = p.Cards()
	assert.Equal(t, "$399/yr", cards[1].Pricing.PriceText())
	assert.Equal(t, "~$33/mo equivalent", cards[1].Pricing.EquivalentHint())
	assert.Equal(t, "Save 33%", cards[1].Pricing.SavingsBadge)
	assert.Equal(t, "Get Pro Access", cards[1].Pricing.CallToAction)

	// No annual price on the free plan leaves it undetermined
	assert.Equal(t, "--", cards[0].Pricing.PriceText())
	assert.Equal(t, "Get Started Free", cards[0].Pricing.CallToAction)
}

func TestCard_DelaysAndMockups(t *testing.T) {
	cards := New(pricedCatalog(), Metadata{}, nil).Cards()

	assert.Equal(t, 100*time.Millisecond, cards[0].Delay)
	assert.Equal(t, 300*time.Millisecond, cards[1].Delay)
	assert.Equal(t, MockupList, cards[0].Mockup())
	assert.Equal(t, MockupDashboard, cards[1].Mockup())
	assert.Equal(t, visibility.Region("plan-pro-teacher"), cards[1].Region())
	assert.Equal(t, visibility.Options{Threshold: CardThreshold}, cards[1].Detector().Options())
}

func TestCard_VisibilityWithHub(t *testing.T) {
	hub := visibility.NewHub()
	p := New(pricedCatalog(), Metadata{}, nil, WithObserver(hub))

	cards := p.Cards()
	for _, c := range cards {
		c.Mount()
	}
	assert.Equal(t, 2, hub.Active())
	assert.False(t, cards[0].Visible())

	hub.ReportRatio("plan-starter", 0.05)
	assert.False(t, cards[0].Visible())
	hub.ReportRatio("plan-starter", 0.5)
	assert.True(t, cards[0].Visible())
	assert.True(t, cards[0].Revealed())
	assert.False(t, cards[1].Revealed())

	for _, c := range cards {
		c.Unmount()
	}
	assert.Equal(t, 0, hub.Active())
}

func TestCard_VisibleWithoutObserver(t *testing.T) {
	card := New(nil, Metadata{}, nil).Cards()[0]
	assert.False(t, card.Visible())

	card.Mount()
	assert.True(t, card.Visible())
	card.Unmount()
}

func TestPage_Snapshot(t *testing.T) {
	hub := visibility.NewHub()
	p := New(pricedCatalog(), Metadata{}, nil, WithObserver(hub), WithCycle(pricing.Annual))

	view := p.Snapshot()
	assert.Equal(t, 0, hub.Active(), "snapshot releases every subscription")

	assert.Equal(t, "annual", view.Cycle)
	assert.True(t, view.Toggle.Annual)
	assert.Equal(t, "monthly", view.Toggle.Target)
	assert.Equal(t, "Switch to monthly billing", view.Toggle.Label)
	assert.Equal(t, "Save 33%", view.Toggle.HeaderBadge)
	assert.Equal(t, LaunchOffer, view.LaunchOffer)

	require.Len(t, view.Cards, 2)
	pro := view.Cards[1]
	assert.Equal(t, "pro-teacher", pro.ID)
	assert.True(t, pro.Popular)
	assert.Equal(t, int64(300), pro.DelayMillis)
	assert.Equal(t, "$399/yr", pro.PriceText)
	assert.Equal(t, "$599", pro.OriginalText)
	assert.Equal(t, "~$33/mo equivalent", pro.EquivalentHint)
	assert.False(t, pro.Visible)
}

func TestPage_ConcurrentTogglesEachInvert(t *testing.T) {
	p := New(pricedCatalog(), Metadata{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Toggle()
		}()
	}
	wg.Wait()

	assert.Equal(t, pricing.Monthly, p.Cycle(), "an even number of toggles restores the cycle")
}
