package page

import "github.com/platinummonkey/pricing-page/pkg/pricing"

// ToggleControl is the monthly/annual switch. It holds no state of its own:
// Cycle is the page's current cycle and OnToggle receives the requested one.
type ToggleControl struct {
	Cycle    pricing.BillingCycle
	OnToggle func(pricing.BillingCycle)
}

// Activate requests the opposite of the current cycle
func (t ToggleControl) Activate() {
	if t.OnToggle != nil {
		t.OnToggle(t.Cycle.Toggle())
	}
}

// Target is the cycle Activate requests
func (t ToggleControl) Target() pricing.BillingCycle {
	return t.Cycle.Toggle()
}

// AccessibleLabel names the action of activating the control
func (t ToggleControl) AccessibleLabel() string {
	if t.Cycle.IsAnnual() {
		return "Switch to monthly billing"
	}
	return "Switch to annual billing"
}

// HeaderBadge is the savings chip shown beside the switch while annual
func (t ToggleControl) HeaderBadge() string {
	if !t.Cycle.IsAnnual() {
		return ""
	}
	return pricing.SavingsBadge(pricing.Annual)
}
