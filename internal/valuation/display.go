package valuation

import (
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// DisplayCurrency resolves the currency amounts are shown in. Currencies
// absent from the rate table fall back to the base currency.
func DisplayCurrency(currency string, rates model.RateTable) string {
	if currency == "" || currency == model.BaseCurrency {
		return model.BaseCurrency
	}
	if _, ok := rates[currency]; !ok {
		return model.BaseCurrency
	}
	return currency
}

// ConvertOverview expresses a base-currency overview in currency.
// Ordering and bucketing are left as computed in the base currency.
func ConvertOverview(ov model.Overview, currency string, rates model.RateTable) (model.Overview, error) {
	currency = DisplayCurrency(currency, rates)
	if currency == ov.Currency {
		return ov, nil
	}

	var err error
	convert := func(amount decimal.Decimal) decimal.Decimal {
		if err != nil {
			return amount
		}
		var out decimal.Decimal
		out, err = FromBase(amount, currency, rates)
		return out
	}

	out := model.Overview{
		Summary: model.Summary{
			Sources:      make([]model.ValuatedSource, len(ov.Sources)),
			NetWorth:     convert(ov.NetWorth),
			LiquidAssets: convert(ov.LiquidAssets),
		},
		AssetAllocation: convertAllocation(ov.AssetAllocation, convert),
		Currency:        currency,
	}
	for i, s := range ov.Sources {
		s.TotalValue = convert(s.TotalValue)
		out.Sources[i] = s
	}

	if err != nil {
		return model.Overview{}, err
	}
	return out, nil
}

// ConvertSnapshots expresses base-currency snapshots in currency.
func ConvertSnapshots(snapshots []model.Snapshot, currency string, rates model.RateTable) (model.SnapshotHistory, error) {
	currency = DisplayCurrency(currency, rates)
	history := model.SnapshotHistory{
		Currency:  currency,
		Snapshots: make([]model.Snapshot, len(snapshots)),
	}

	var err error
	convert := func(amount decimal.Decimal) decimal.Decimal {
		if err != nil {
			return amount
		}
		var out decimal.Decimal
		out, err = FromBase(amount, currency, rates)
		return out
	}

	for i, s := range snapshots {
		s.NetWorth = convert(s.NetWorth)
		s.LiquidAssets = convert(s.LiquidAssets)
		s.AssetAllocation = convertAllocation(s.AssetAllocation, convert)
		history.Snapshots[i] = s
	}

	if err != nil {
		return model.SnapshotHistory{}, err
	}
	return history, nil
}

func convertAllocation(entries []model.AllocationEntry, convert func(decimal.Decimal) decimal.Decimal) []model.AllocationEntry {
	out := make([]model.AllocationEntry, len(entries))
	for i, e := range entries {
		out[i] = model.AllocationEntry{Name: e.Name, Value: convert(e.Value)}
	}
	return out
}
