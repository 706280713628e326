package validation

import (
	"fmt"
	"strings"

	"github.com/damiad/net-worth-tracker/internal/api/request"
)

// ValidateSaveSource checks a source payload at the API boundary.
// Areas, prices, amounts and rates must not be negative; account balances
// may be, since overdrafts are real.
func ValidateSaveSource(req request.SaveSourceRequest) error {
	fields := structErrors(req)

	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "is required"
	}

	if p := req.Property; p != nil {
		requireNonNegative(fields, "property.areaM2", p.AreaM2)
		requireNonNegative(fields, "property.pricePerAreaUnit", p.PricePerAreaUnit)
		requireNonNegative(fields, "property.bankDebtAmount", p.BankDebtAmount)
		seenDebts := make(map[string]bool, len(p.OtherDebts))
		for i, d := range p.OtherDebts {
			prefix := fmt.Sprintf("property.otherDebts[%d].", i)
			requireNonNegative(fields, prefix+"baseAmount", d.BaseAmount)
			requireNonNegative(fields, prefix+"accumulatedInterest", d.AccumulatedInterest)
			requireNonNegative(fields, prefix+"interestRatePercent", d.InterestRatePercent)
			requireUnique(fields, seenDebts, prefix+"id", d.ID)
		}
	}

	seen := make(map[string]bool, len(req.Records))
	for i, r := range req.Records {
		prefix := fmt.Sprintf("records[%d].", i)
		if r.Kind != "account" {
			requireNonNegative(fields, prefix+"baseAmount", r.BaseAmount)
			requireNonNegative(fields, prefix+"accumulatedInterest", r.AccumulatedInterest)
			requireNonNegative(fields, prefix+"interestRatePercent", r.InterestRatePercent)
		}
		requireUnique(fields, seen, prefix+"id", r.ID)
	}

	return result(fields)
}

func requireUnique(fields map[string]string, seen map[string]bool, field, id string) {
	if id == "" {
		return
	}
	if seen[id] {
		fields[field] = "is duplicated"
	}
	seen[id] = true
}

// ValidateSetExchangeRate checks a rate update. Rates must be positive.
func ValidateSetExchangeRate(currency string, req request.SetExchangeRateRequest) error {
	fields := make(map[string]string)

	if _, err := request.ParseCurrencyParam(currency); err != nil || currency == "" {
		fields["currency"] = "must be a three-letter currency code"
	}
	if !req.Rate.IsPositive() {
		fields["rate"] = "must be positive"
	}

	return result(fields)
}
