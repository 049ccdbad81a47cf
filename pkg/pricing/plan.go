package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBillingCycle is returned for billing cycle values other than
// monthly and annual
var ErrInvalidBillingCycle = errors.New("invalid billing cycle")

// BillingCycle selects which set of price fields is displayed
type BillingCycle string

const (
	Monthly BillingCycle = "monthly"
	Annual  BillingCycle = "annual"
)

// DefaultBillingCycle is the cycle a page starts in
const DefaultBillingCycle = Monthly

// ParseBillingCycle parses a billing cycle. Empty input yields the default.
func ParseBillingCycle(value string) (BillingCycle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return DefaultBillingCycle, nil
	case string(Monthly):
		return Monthly, nil
	case string(Annual):
		return Annual, nil
	default:
		return "", fmt.Errorf("%w: %q (must be monthly or annual)", ErrInvalidBillingCycle, value)
	}
}

// IsAnnual reports whether the cycle is annual. Any other value, including
// the zero value, behaves as monthly.
func (c BillingCycle) IsAnnual() bool {
	return c == Annual
}

// Toggle returns the opposite cycle
func (c BillingCycle) Toggle() BillingCycle {
	if c.IsAnnual() {
		return Monthly
	}
	return Annual
}

// Suffix returns the per-period suffix shown after a price
func (c BillingCycle) Suffix() string {
	if c.IsAnnual() {
		return "/yr"
	}
	return "/mo"
}

// String implements fmt.Stringer
func (c BillingCycle) String() string {
	return string(c.normalized())
}

func (c BillingCycle) normalized() BillingCycle {
	if c.IsAnnual() {
		return Annual
	}
	return Monthly
}

// PlanType picks the decorative mockup drawn behind a card
type PlanType string

const (
	PlanTypeFree PlanType = "free"
	PlanTypePro  PlanType = "pro"
)

// Feature is one row of a plan's feature list
type Feature struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Included bool   `yaml:"included" json:"included"`
}

// PlanDefinition describes one pricing tier. Optional prices are nil when
// absent, which is distinct from an Undetermined price.
type PlanDefinition struct {
	ID                  string    `yaml:"id" json:"id" validate:"required"`
	Title               string    `yaml:"title" json:"title" validate:"required"`
	Type                PlanType  `yaml:"type" json:"type" validate:"required,oneof=free pro"`
	Price               Price     `yaml:"price" json:"price"`
	OriginalPrice       *Price    `yaml:"original_price,omitempty" json:"original_price,omitempty"`
	AnnualPrice         *Price    `yaml:"annual_price,omitempty" json:"annual_price,omitempty"`
	AnnualOriginalPrice *Price    `yaml:"annual_original_price,omitempty" json:"annual_original_price,omitempty"`
	Features            []Feature `yaml:"features" json:"features" validate:"required,min=1,dive"`
	IsPopular           bool      `yaml:"popular,omitempty" json:"popular,omitempty"`
}

// PriceFor returns the price shown for the cycle
func (p PlanDefinition) PriceFor(cycle BillingCycle) Price {
	if !cycle.IsAnnual() {
		return p.Price
	}
	if p.AnnualPrice == nil {
		return Undetermined
	}
	return *p.AnnualPrice
}

// OriginalPriceFor returns the struck-through price for the cycle, or nil
func (p PlanDefinition) OriginalPriceFor(cycle BillingCycle) *Price {
	if cycle.IsAnnual() {
		return p.AnnualOriginalPrice
	}
	return p.OriginalPrice
}
