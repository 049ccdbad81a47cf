// Package pricing computes what a pricing card displays for a plan under a
// billing cycle.
//
// # Overview
//
// Plans are static definitions loaded once from a catalog. The presenter is a
// pure function of a plan and a billing cycle:
//
//	display := pricing.Present(plan, pricing.Annual)
//	fmt.Println(display.PriceText())      // "$399/yr"
//	fmt.Println(display.EquivalentHint()) // "~$33/mo equivalent"
//	fmt.Println(display.SavingsBadge)     // "Save 33%"
//
// # Prices
//
// A Price is one of three cases: Undetermined (rendered as "--"), Free, or an
// Amount holding the display text ("$49", "$1,200"). Catalog files use the
// rendered text form:
//
//	plans:
//	  - id: pro
//	    title: Pro Teacher
//	    type: pro
//	    price: "$49"
//	    original_price: "$79"
//	    annual_price: "$399"
//
// # Savings badges
//
// Savings badge text is a fixed label per billing cycle ("Save 33%" annual,
// "Save 37%" monthly). It is not derived from the price gap.
//
// # Related Packages
//
//   - pkg/page: Renders cards built from DisplayPricing
package pricing
