// Package display renders decimal amounts for people using each currency's
// grapheme, separators and minor-unit precision.
package display

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/damiad/net-worth-tracker/internal/model"
)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// Money formats amount in the given currency, e.g. "$1,234.56".
// Amounts are rounded half away from zero to the currency's minor unit.
// An empty currency means the base currency. Currencies unknown to the
// formatter, and amounts too large for it, are rendered as "1234.56 XYZ".
func Money(amount decimal.Decimal, currency string) string {
	code := currencyCode(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return amount.StringFixed(int32(cur.Fraction)) + " " + code
	}
	return money.New(minor.IntPart(), code).Display()
}

// Symbol returns the grapheme of currency, or the code itself when unknown.
// An empty currency means the base currency.
func Symbol(currency string) string {
	code := currencyCode(currency)
	if cur := money.GetCurrency(code); cur != nil {
		return cur.Grapheme
	}
	return code
}

func currencyCode(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		return model.BaseCurrency
	}
	return code
}
