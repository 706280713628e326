package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency every value is normalized to before aggregation.
const BaseCurrency = "PLN"

// OtherBucketName labels the allocation entry that groups small positive sources.
const OtherBucketName = "Other"

// RateTable maps a currency code to the number of base-currency units one unit
// of that currency is worth. It is treated as an immutable value.
type RateTable map[string]decimal.Decimal

// ExchangeRate is a stored entry of the rate table.
type ExchangeRate struct {
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ValuatedSource is a source together with its net value in the base currency.
// LastUpdated is nil for bank-like sources without sub-records.
// UnknownCurrencies lists referenced currencies that were missing from the
// rate table and were therefore valued at rate 1.
type ValuatedSource struct {
	Source            Source
	TotalValue        decimal.Decimal
	LastUpdated       *time.Time
	UnknownCurrencies []string
}

// Degraded reports whether the valuation fell back to rate 1 for any currency.
func (v ValuatedSource) Degraded() bool {
	return len(v.UnknownCurrencies) > 0
}

// Summary is the aggregate view over all of a user's sources.
// Sources are ordered by TotalValue, highest first.
type Summary struct {
	Sources      []ValuatedSource
	NetWorth     decimal.Decimal
	LiquidAssets decimal.Decimal
}

// AllocationEntry is one slice of the asset-allocation breakdown.
type AllocationEntry struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Overview is the complete data contract consumed by the presentation layer.
// Currency is the currency every amount is expressed in.
type Overview struct {
	Summary
	AssetAllocation []AllocationEntry
	Currency        string
}
