package page

import (
	"time"

	"github.com/platinummonkey/pricing-page/pkg/pricing"
	"github.com/platinummonkey/pricing-page/pkg/visibility"
)

// CardThreshold is the fraction of a card that must be on screen before it
// animates in
const CardThreshold = 0.1

// Entrance delays are staggered per card position
const (
	baseDelay = 100 * time.Millisecond
	stepDelay = 200 * time.Millisecond
)

// Mockup names the decorative illustration drawn behind a card
type Mockup string

const (
	MockupList      Mockup = "list"
	MockupDashboard Mockup = "dashboard"
)

// Card is one pricing tier as shown for the page's current cycle. The cycle
// is read-only here; only the Page changes it.
type Card struct {
	Plan     pricing.PlanDefinition
	Pricing  pricing.DisplayPricing
	Delay    time.Duration
	detector *visibility.Detector
}

func newCard(plan pricing.PlanDefinition, cycle pricing.BillingCycle, index int, observer visibility.Observer) *Card {
	return &Card{
		Plan:     plan,
		Pricing:  pricing.Present(plan, cycle),
		Delay:    baseDelay + time.Duration(index)*stepDelay,
		detector: visibility.New(observer, visibility.Options{Threshold: CardThreshold}),
	}
}

// Cycle is the billing cycle the card was built for
func (c *Card) Cycle() pricing.BillingCycle {
	return c.Pricing.Cycle
}

// Region identifies the card to the visibility observer
func (c *Card) Region() visibility.Region {
	return visibility.Region("plan-" + c.Plan.ID)
}

// Mount starts watching the card's region
func (c *Card) Mount() {
	c.detector.Mount(c.Region())
}

// Unmount releases the card's visibility subscription
func (c *Card) Unmount() {
	c.detector.Unmount()
}

// Visible reports whether the card is currently on screen
func (c *Card) Visible() bool {
	return c.detector.Visible()
}

// Revealed reports whether the entrance animation has been triggered
func (c *Card) Revealed() bool {
	return c.detector.SeenOnce()
}

// Detector exposes the card's visibility detector
func (c *Card) Detector() *visibility.Detector {
	return c.detector
}

// Mockup returns the illustration for the card's plan type
func (c *Card) Mockup() Mockup {
	if c.Plan.Type == pricing.PlanTypePro {
		return MockupDashboard
	}
	return MockupList
}
