package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnparseablePrice is returned when a price has no numeric amount
var ErrUnparseablePrice = errors.New("price is not a numeric amount")

// PriceKind distinguishes the three kinds of displayed price
type PriceKind int

const (
	PriceUndetermined PriceKind = iota
	PriceFree
	PriceAmount
)

const (
	undeterminedText = "--"
	freeText         = "Free"
)

// Price is a displayed price: Undetermined, Free, or an Amount.
// The zero value is Undetermined.
type Price struct {
	kind   PriceKind
	amount string
}

var (
	// Undetermined marks a price that has not been finalized yet
	Undetermined = Price{kind: PriceUndetermined}
	// Free marks a plan with no charge
	Free = Price{kind: PriceFree}
)

// Amount returns a price holding the given display text
func Amount(text string) Price {
	return Price{kind: PriceAmount, amount: strings.TrimSpace(text)}
}

// ParsePrice maps display text to a Price. Empty text and "--" are
// Undetermined, "Free" (any case) is Free, everything else is an Amount.
func ParsePrice(text string) Price {
	text = strings.TrimSpace(text)
	switch {
	case text == "" || text == undeterminedText:
		return Undetermined
	case strings.EqualFold(text, freeText):
		return Free
	default:
		return Amount(text)
	}
}

// Kind returns the price kind
func (p Price) Kind() PriceKind { return p.kind }

// IsAmount reports whether the price carries an amount
func (p Price) IsAmount() bool { return p.kind == PriceAmount }

// IsFree reports whether the price is Free
func (p Price) IsFree() bool { return p.kind == PriceFree }

// IsUndetermined reports whether the price is Undetermined
func (p Price) IsUndetermined() bool { return p.kind == PriceUndetermined }

// String renders the price as it is displayed
func (p Price) String() string {
	switch p.kind {
	case PriceFree:
		return freeText
	case PriceAmount:
		return p.amount
	default:
		return undeterminedText
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Price) UnmarshalText(text []byte) error {
	*p = ParsePrice(string(text))
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (p Price) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (p *Price) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return fmt.Errorf("price must be a string: %w", err)
	}
	*p = ParsePrice(text)
	return nil
}

// MonthlyEquivalent divides an annual amount by twelve and rounds to the
// nearest whole unit. Currency symbols and thousands separators are ignored;
// anything after the leading integer (cents, trailing text) is dropped.
func MonthlyEquivalent(annual Price) (int, error) {
	if !annual.IsAmount() {
		return 0, fmt.Errorf("%w: %s", ErrUnparseablePrice, annual)
	}

	value, err := leadingInt(strings.NewReplacer("$", "", ",", "").Replace(annual.amount))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseablePrice, annual.amount)
	}

	return int(math.Round(float64(value) / 12)), nil
}

// leadingInt parses the run of digits at the start of s
func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s[:end])
}
