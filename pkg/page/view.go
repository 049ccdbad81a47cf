package page

import (
	"github.com/platinummonkey/pricing-page/pkg/pricing"
)

// LaunchOffer is the banner copy below the cards
const LaunchOffer = "Special Launch Offer: Save up to 33% on annual plans"

// View is a point-in-time snapshot of the page, shared by the HTML template
// and the JSON API
type View struct {
	Metadata    Metadata   `json:"metadata"`
	Cycle       string     `json:"cycle"`
	Toggle      ToggleView `json:"toggle"`
	Cards       []CardView `json:"cards"`
	LaunchOffer string     `json:"launch_offer"`
}

// ToggleView is the rendered state of the billing switch
type ToggleView struct {
	Annual      bool   `json:"annual"`
	Target      string `json:"target"`
	Label       string `json:"label"`
	HeaderBadge string `json:"header_badge,omitempty"`
}

// CardView is the rendered state of one card
type CardView struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Type           pricing.PlanType       `json:"type"`
	Popular        bool                   `json:"popular"`
	Mockup         Mockup                 `json:"mockup"`
	DelayMillis    int64                  `json:"delay_ms"`
	Visible        bool                   `json:"visible"`
	Pricing        pricing.DisplayPricing `json:"pricing"`
	PriceText      string                 `json:"price_text"`
	OriginalText   string                 `json:"original_price_text,omitempty"`
	EquivalentHint string                 `json:"equivalent_hint,omitempty"`
	Features       []pricing.Feature      `json:"features"`
}

// Snapshot mounts every card, captures the page, and unmounts the cards
// again so no subscription outlives the call
func (p *Page) Snapshot() View {
	toggle := p.ToggleControl()
	cards := p.Cards()

	view := View{
		Metadata: p.Metadata(),
		Cycle:    toggle.Cycle.String(),
		Toggle: ToggleView{
			Annual:      toggle.Cycle.IsAnnual(),
			Target:      toggle.Target().String(),
			Label:       toggle.AccessibleLabel(),
			HeaderBadge: toggle.HeaderBadge(),
		},
		Cards:       make([]CardView, 0, len(cards)),
		LaunchOffer: LaunchOffer,
	}

	for _, card := range cards {
		card.Mount()
		view.Cards = append(view.Cards, CardView{
			ID:             card.Plan.ID,
			Title:          card.Plan.Title,
			Type:           card.Plan.Type,
			Popular:        card.Plan.IsPopular,
			Mockup:         card.Mockup(),
			DelayMillis:    card.Delay.Milliseconds(),
			Visible:        card.Visible(),
			Pricing:        card.Pricing,
			PriceText:      card.Pricing.PriceText(),
			OriginalText:   card.Pricing.OriginalPriceText(),
			EquivalentHint: card.Pricing.EquivalentHint(),
			Features:       card.Plan.Features,
		})
		card.Unmount()
	}

	return view
}
