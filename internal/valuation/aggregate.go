package valuation

import (
	"slices"

	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Aggregate values every source and totals them.
//
// The returned sources are sorted by value, highest first; sources of equal
// value keep their input order. NetWorth sums every source, LiquidAssets sums
// every source that is not a property, negative ones included.
func Aggregate(sources []model.Source, recordsBySource map[string][]model.SubRecord, rates model.RateTable) model.Summary {
	valuated := make([]model.ValuatedSource, 0, len(sources))
	netWorth := decimal.Zero
	liquid := decimal.Zero

	for _, src := range sources {
		v := ValueSource(src, recordsBySource[src.ID], rates)
		valuated = append(valuated, v)

		netWorth = netWorth.Add(v.TotalValue)
		if !src.IsProperty() {
			liquid = liquid.Add(v.TotalValue)
		}
	}

	slices.SortStableFunc(valuated, func(a, b model.ValuatedSource) int {
		return b.TotalValue.Cmp(a.TotalValue)
	})

	return model.Summary{
		Sources:      valuated,
		NetWorth:     netWorth,
		LiquidAssets: liquid,
	}
}

// BuildOverview runs the aggregator and the allocation bucketizer in one step.
func BuildOverview(sources []model.Source, records []model.SubRecord, rates model.RateTable) model.Overview {
	summary := Aggregate(sources, model.GroupBySource(records), rates)
	return model.Overview{
		Summary:         summary,
		AssetAllocation: Allocate(summary.Sources, summary.NetWorth),
		Currency:        model.BaseCurrency,
	}
}
