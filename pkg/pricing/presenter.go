package pricing

import "fmt"

const (
	ctaFree = "Get Started Free"
	ctaPro  = "Get Pro Access"

	ctaFreeLabel = "Get started with free plan"
	ctaProLabel  = "Upgrade to pro plan"
)

// savingsBadges are marketing labels, fixed per cycle
var savingsBadges = map[BillingCycle]string{
	Annual:  "Save 33%",
	Monthly: "Save 37%",
}

// SavingsBadge returns the badge label for a cycle
func SavingsBadge(cycle BillingCycle) string {
	return savingsBadges[cycle.normalized()]
}

// DisplayPricing is everything a card shows about price for one cycle
type DisplayPricing struct {
	Cycle             BillingCycle `json:"cycle"`
	Price             Price        `json:"price"`
	OriginalPrice     *Price       `json:"original_price,omitempty"`
	Suffix            string       `json:"suffix,omitempty"`
	MonthlyEquivalent *int         `json:"monthly_equivalent,omitempty"`
	SavingsBadge      string       `json:"savings_badge,omitempty"`
	CallToAction      string       `json:"call_to_action"`
	CallToActionLabel string       `json:"call_to_action_label"`
}

// Present computes the display pricing of a plan for a cycle
func Present(plan PlanDefinition, cycle BillingCycle) DisplayPricing {
	cycle = cycle.normalized()
	price := plan.PriceFor(cycle)

	d := DisplayPricing{
		Cycle:         cycle,
		Price:         price,
		OriginalPrice: plan.OriginalPriceFor(cycle),
	}

	if showSuffix(plan, cycle, price) {
		d.Suffix = cycle.Suffix()
	}

	if cycle.IsAnnual() && price.IsAmount() && plan.AnnualPrice != nil && plan.AnnualPrice.IsAmount() {
		if monthly, err := MonthlyEquivalent(*plan.AnnualPrice); err == nil {
			d.MonthlyEquivalent = &monthly
		}
	}

	if d.OriginalPrice != nil {
		d.SavingsBadge = SavingsBadge(cycle)
	}

	if price.IsAmount() {
		d.CallToAction, d.CallToActionLabel = ctaPro, ctaProLabel
	} else {
		d.CallToAction, d.CallToActionLabel = ctaFree, ctaFreeLabel
	}

	return d
}

// showSuffix: annual prices equal to the monthly price carry no suffix
func showSuffix(plan PlanDefinition, cycle BillingCycle, price Price) bool {
	if !price.IsAmount() {
		return false
	}
	if !cycle.IsAnnual() {
		return true
	}
	return plan.AnnualPrice != nil && *plan.AnnualPrice != plan.Price
}

// PriceText is the price followed by its suffix, e.g. "$49/mo"
func (d DisplayPricing) PriceText() string {
	return d.Price.String() + d.Suffix
}

// OriginalPriceText is the struck-through price, or empty when absent
func (d DisplayPricing) OriginalPriceText() string {
	if d.OriginalPrice == nil {
		return ""
	}
	return d.OriginalPrice.String()
}

// EquivalentHint is the monthly-equivalent line, or empty when not shown
func (d DisplayPricing) EquivalentHint() string {
	if d.MonthlyEquivalent == nil {
		return ""
	}
	return fmt.Sprintf("~$%d/mo equivalent", *d.MonthlyEquivalent)
}

// IsFreeTier reports whether the card calls to the free plan
func (d DisplayPricing) IsFreeTier() bool {
	return !d.Price.IsAmount()
}
