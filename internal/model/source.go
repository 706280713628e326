package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind distinguishes bank-like sources, whose value comes from their
// sub-records, from property sources, which carry their valuation inline.
type SourceKind string

const (
	SourceKindBank     SourceKind = "bank"
	SourceKindProperty SourceKind = "property"
)

// Source represents a named financial holding owned by a user.
// Property is nil for bank-like sources.
type Source struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Name        string           `json:"name"`
	Kind        SourceKind       `json:"kind"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Property    *PropertyDetails `json:"property,omitempty"`
}

// IsProperty reports whether the source is valued from its inline property fields.
func (s Source) IsProperty() bool {
	return s.Kind == SourceKindProperty
}

// PropertyDetails holds the inline valuation fields of a property source.
// Missing amounts are zero and missing currencies mean the base currency.
type PropertyDetails struct {
	AreaM2           decimal.Decimal `json:"areaM2"`
	PricePerAreaUnit decimal.Decimal `json:"pricePerAreaUnit"`
	PriceCurrency    string          `json:"priceCurrency"`
	BankDebtAmount   decimal.Decimal `json:"bankDebtAmount"`
	BankDebtCurrency string          `json:"bankDebtCurrency"`
	OtherDebts       []PropertyDebt  `json:"otherDebts"`
}

// PropertyDebt is a liability stored inline on a property source.
type PropertyDebt struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LastUpdated time.Time `json:"lastUpdated"`
	InterestBearing
}

// DefaultDebtName is used for property debts saved without a name.
const DefaultDebtName = "Unnamed Debt"

// InterestBearing is the shared shape of loans and debts: a base amount plus
// interest accumulated so far at an annual rate.
type InterestBearing struct {
	BaseAmount          decimal.Decimal `json:"baseAmount"`
	AccumulatedInterest decimal.Decimal `json:"accumulatedInterest"`
	InterestRatePercent decimal.Decimal `json:"interestRatePercent"`
	Currency            string          `json:"currency"`
}

// Outstanding returns the base amount plus accumulated interest.
func (ib InterestBearing) Outstanding() decimal.Decimal {
	return ib.BaseAmount.Add(ib.AccumulatedInterest)
}
