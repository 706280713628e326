package valuation

import (
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// otherThreshold is the share of net worth below which a source is folded into "Other".
var otherThreshold = decimal.New(2, -2)

// Allocate builds the asset-allocation breakdown from sources already sorted
// by value, highest first.
//
// Nothing is allocated when netWorth is zero or negative. Sources worth zero
// or less are left out. Positive sources under 2% of net worth are summed
// into a single trailing "Other" entry; the rest keep their order. The values
// of the result add up to the sum of all positive source values.
func Allocate(sources []model.ValuatedSource, netWorth decimal.Decimal) []model.AllocationEntry {
	allocation := []model.AllocationEntry{}
	if !netWorth.IsPositive() {
		return allocation
	}

	threshold := netWorth.Mul(otherThreshold)
	other := decimal.Zero

	for _, s := range sources {
		if !s.TotalValue.IsPositive() {
			continue
		}
		if s.TotalValue.LessThan(threshold) {
			other = other.Add(s.TotalValue)
			continue
		}
		allocation = append(allocation, model.AllocationEntry{
			Name:  s.Source.Name,
			Value: s.TotalValue,
		})
	}

	if other.IsPositive() {
		allocation = append(allocation, model.AllocationEntry{
			Name:  model.OtherBucketName,
			Value: other,
		})
	}

	return allocation
}
