// Package valuation is the net-worth engine: currency conversion, interest
// accrual, per-source valuation, aggregation, allocation bucketing and the
// daily snapshot policy. Every function is pure and safe for concurrent use;
// callers pass all inputs explicitly.
package valuation

import (
	"fmt"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Rate returns the base-currency rate of currency and whether the table knew it.
// The base currency and an empty code always resolve to 1. A missing or
// non-positive entry also resolves to 1 but reports false, so callers can
// flag the valuation as degraded.
func Rate(currency string, rates model.RateTable) (decimal.Decimal, bool) {
	if currency == "" || currency == model.BaseCurrency {
		return one, true
	}
	rate, ok := rates[currency]
	if !ok || !rate.IsPositive() {
		return one, false
	}
	return rate, true
}

// ToBase converts amount in currency to the base currency.
// Unknown currencies are silently converted at rate 1.
func ToBase(amount decimal.Decimal, currency string, rates model.RateTable) decimal.Decimal {
	rate, _ := Rate(currency, rates)
	return amount.Mul(rate)
}

// FromBase converts a base-currency amount into currency. Unknown currencies
// fall back to rate 1; a stored rate that is zero or negative is rejected.
func FromBase(amount decimal.Decimal, currency string, rates model.RateTable) (decimal.Decimal, error) {
	if currency == "" || currency == model.BaseCurrency {
		return amount, nil
	}
	rate, ok := rates[currency]
	if !ok {
		return amount, nil
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s=%s", apperrors.ErrInvalidRate, currency, rate)
	}
	return amount.Div(rate), nil
}

// converter accumulates the currencies it could not resolve while converting
// the amounts of a single source.
type converter struct {
	rates   model.RateTable
	unknown []string
}

func (c *converter) toBase(amount decimal.Decimal, currency string) decimal.Decimal {
	rate, ok := Rate(currency, c.rates)
	if !ok {
		c.markUnknown(currency)
	}
	return amount.Mul(rate)
}

func (c *converter) markUnknown(currency string) {
	for _, seen := range c.unknown {
		if seen == currency {
			return
		}
	}
	c.unknown = append(c.unknown, currency)
}
