package handlers

import (
	"time"

	"github.com/damiad/net-worth-tracker/internal/display"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// AmountResponse is a monetary value as a JSON number plus its display form.
type AmountResponse struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

func amount(v decimal.Decimal, currency string) AmountResponse {
	return AmountResponse{
		Value:   v.InexactFloat64(),
		Display: display.Money(v, currency),
	}
}

// OverviewResponse is the net-worth dashboard of a user.
type OverviewResponse struct {
	Currency        string                    `json:"currency"`
	Symbol          string                    `json:"symbol"`
	NetWorth        AmountResponse            `json:"netWorth"`
	LiquidAssets    AmountResponse            `json:"liquidAssets"`
	Sources         []ValuatedSourceResponse  `json:"sources"`
	AssetAllocation []AllocationEntryResponse `json:"assetAllocation"`
}

// ValuatedSourceResponse is one row of the overview's source list.
type ValuatedSourceResponse struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Kind              string         `json:"kind"`
	TotalValue        AmountResponse `json:"totalValue"`
	LastUpdated       *time.Time     `json:"lastUpdated"`
	UnknownCurrencies []string       `json:"unknownCurrencies,omitempty"`
}

// AllocationEntryResponse is one slice of the allocation chart.
type AllocationEntryResponse struct {
	Name  string         `json:"name"`
	Value AmountResponse `json:"value"`
}

func newOverviewResponse(ov model.Overview) OverviewResponse {
	resp := OverviewResponse{
		Currency:        ov.Currency,
		Symbol:          display.Symbol(ov.Currency),
		NetWorth:        amount(ov.NetWorth, ov.Currency),
		LiquidAssets:    amount(ov.LiquidAssets, ov.Currency),
		Sources:         make([]ValuatedSourceResponse, len(ov.Sources)),
		AssetAllocation: allocationResponse(ov.AssetAllocation, ov.Currency),
	}
	for i, s := range ov.Sources {
		resp.Sources[i] = ValuatedSourceResponse{
			ID:                s.Source.ID,
			Name:              s.Source.Name,
			Kind:              string(s.Source.Kind),
			TotalValue:        amount(s.TotalValue, ov.Currency),
			LastUpdated:       s.LastUpdated,
			UnknownCurrencies: s.UnknownCurrencies,
		}
	}
	return resp
}

func allocationResponse(entries []model.AllocationEntry, currency string) []AllocationEntryResponse {
	out := make([]AllocationEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AllocationEntryResponse{Name: e.Name, Value: amount(e.Value, currency)}
	}
	return out
}

// SnapshotHistoryResponse is the net-worth chart of a user, oldest first.
type SnapshotHistoryResponse struct {
	Currency  string             `json:"currency"`
	Snapshots []SnapshotResponse `json:"snapshots"`
}

// SnapshotResponse is one recorded point of the chart.
type SnapshotResponse struct {
	ID              string                    `json:"id"`
	NetWorth        float64                   `json:"netWorth"`
	LiquidAssets    float64                   `json:"liquidAssets"`
	AssetAllocation []AllocationEntryResponse `json:"assetAllocation"`
	Timestamp       time.Time                 `json:"timestamp"`
}

func newSnapshotHistoryResponse(h model.SnapshotHistory) SnapshotHistoryResponse {
	resp := SnapshotHistoryResponse{
		Currency:  h.Currency,
		Snapshots: make([]SnapshotResponse, len(h.Snapshots)),
	}
	for i, s := range h.Snapshots {
		resp.Snapshots[i] = SnapshotResponse{
			ID:              s.ID,
			NetWorth:        s.NetWorth.InexactFloat64(),
			LiquidAssets:    s.LiquidAssets.InexactFloat64(),
			AssetAllocation: allocationResponse(s.AssetAllocation, h.Currency),
			Timestamp:       s.Timestamp,
		}
	}
	return resp
}

// SourceResponse is a source with its property details or sub-records.
type SourceResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Kind        string              `json:"kind"`
	LastUpdated time.Time           `json:"lastUpdated"`
	Property    *PropertyResponse   `json:"property,omitempty"`
	Records     []SubRecordResponse `json:"records"`
}

// PropertyResponse carries the inline valuation fields of a property.
type PropertyResponse struct {
	AreaM2           float64                `json:"areaM2"`
	PricePerAreaUnit float64                `json:"pricePerAreaUnit"`
	PriceCurrency    string                 `json:"priceCurrency"`
	BankDebtAmount   float64                `json:"bankDebtAmount"`
	BankDebtCurrency string                 `json:"bankDebtCurrency"`
	OtherDebts       []PropertyDebtResponse `json:"otherDebts"`
}

// PropertyDebtResponse is an inline debt of a property.
type PropertyDebtResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	BaseAmount          float64   `json:"baseAmount"`
	AccumulatedInterest float64   `json:"accumulatedInterest"`
	InterestRatePercent float64   `json:"interestRatePercent"`
	Currency            string    `json:"currency"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// SubRecordResponse is an account, loan or debt. Accounts carry a balance;
// loans and debts carry the interest fields.
type SubRecordResponse struct {
	ID                  string    `json:"id"`
	Kind                string    `json:"kind"`
	Balance             *float64  `json:"balance,omitempty"`
	BaseAmount          *float64  `json:"baseAmount,omitempty"`
	AccumulatedInterest *float64  `json:"accumulatedInterest,omitempty"`
	InterestRatePercent *float64  `json:"interestRatePercent,omitempty"`
	Currency            string    `json:"currency"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

func floatPtr(v decimal.Decimal) *float64 {
	f := v.InexactFloat64()
	return &f
}

func newSourceResponse(s model.SourceWithRecords) SourceResponse {
	resp := SourceResponse{
		ID:          s.Source.ID,
		Name:        s.Source.Name,
		Kind:        string(s.Source.Kind),
		LastUpdated: s.Source.LastUpdated,
		Records:     make([]SubRecordResponse, len(s.Records)),
	}

	if p := s.Source.Property; p != nil {
		resp.Property = &PropertyResponse{
			AreaM2:           p.AreaM2.InexactFloat64(),
			PricePerAreaUnit: p.PricePerAreaUnit.InexactFloat64(),
			PriceCurrency:    p.PriceCurrency,
			BankDebtAmount:   p.BankDebtAmount.InexactFloat64(),
			BankDebtCurrency: p.BankDebtCurrency,
			OtherDebts:       make([]PropertyDebtResponse, len(p.OtherDebts)),
		}
		for i, d := range p.OtherDebts {
			resp.Property.OtherDebts[i] = newPropertyDebtResponse(d)
		}
	}

	for i, r := range s.Records {
		resp.Records[i] = newSubRecordResponse(r)
	}
	return resp
}

func newPropertyDebtResponse(d model.PropertyDebt) PropertyDebtResponse {
	return PropertyDebtResponse{
		ID:                  d.ID,
		Name:                d.Name,
		BaseAmount:          d.BaseAmount.InexactFloat64(),
		AccumulatedInterest: d.AccumulatedInterest.InexactFloat64(),
		InterestRatePercent: d.InterestRatePercent.InexactFloat64(),
		Currency:            d.Currency,
		LastUpdated:         d.LastUpdated,
	}
}

func newSubRecordResponse(r model.SubRecord) SubRecordResponse {
	h := r.Header()
	resp := SubRecordResponse{
		ID:          h.ID,
		Kind:        string(r.Kind()),
		LastUpdated: h.LastUpdated,
	}

	var ib *model.InterestBearing
	switch v := r.(type) {
	case *model.Account:
		resp.Balance = floatPtr(v.Balance)
		resp.Currency = v.Currency
		return resp
	case *model.Loan:
		ib = &v.InterestBearing
	case *model.Debt:
		ib = &v.InterestBearing
	}

	resp.BaseAmount = floatPtr(ib.BaseAmount)
	resp.AccumulatedInterest = floatPtr(ib.AccumulatedInterest)
	resp.InterestRatePercent = floatPtr(ib.InterestRatePercent)
	resp.Currency = ib.Currency
	return resp
}

// ExchangeRateResponse is one entry of the rate table.
type ExchangeRateResponse struct {
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newExchangeRateResponse(r model.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		Currency:  r.Currency,
		Rate:      r.Rate.InexactFloat64(),
		UpdatedAt: r.UpdatedAt,
	}
}
