package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaveSourceRequest creates or replaces a source together with its sub-records
// (bank kind) or its inline property valuation (property kind).
// Amounts accept JSON numbers or decimal strings.
type SaveSourceRequest struct {
	Name     string             `json:"name" validate:"required,max=200"`
	Kind     string             `json:"kind" validate:"required,oneof=bank property"`
	Property *PropertyRequest   `json:"property,omitempty" validate:"required_if=Kind property,omitempty"`
	Records  []SubRecordRequest `json:"records,omitempty" validate:"dive"`
}

type PropertyRequest struct {
	AreaM2           decimal.Decimal       `json:"areaM2"`
	PricePerAreaUnit decimal.Decimal       `json:"pricePerAreaUnit"`
	PriceCurrency    string                `json:"priceCurrency" validate:"omitempty,len=3,uppercase"`
	BankDebtAmount   decimal.Decimal       `json:"bankDebtAmount"`
	BankDebtCurrency string                `json:"bankDebtCurrency" validate:"omitempty,len=3,uppercase"`
	OtherDebts       []PropertyDebtRequest `json:"otherDebts" validate:"dive"`
}

type PropertyDebtRequest struct {
	ID                  string          `json:"id" validate:"omitempty,uuid"`
	Name                string          `json:"name" validate:"max=200"`
	BaseAmount          decimal.Decimal `json:"baseAmount"`
	AccumulatedInterest decimal.Decimal `json:"accumulatedInterest"`
	InterestRatePercent decimal.Decimal `json:"interestRatePercent"`
	Currency            string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	LastUpdated         *time.Time      `json:"lastUpdated,omitempty"`
}

// SubRecordRequest is one account, loan or debt of a bank-like source.
// Records without an ID are created; stored records missing from the list are deleted.
type SubRecordRequest struct {
	ID                  string          `json:"id" validate:"omitempty,uuid"`
	Kind                string          `json:"kind" validate:"required,oneof=account loan debt"`
	Balance             decimal.Decimal `json:"balance"`
	BaseAmount          decimal.Decimal `json:"baseAmount"`
	AccumulatedInterest decimal.Decimal `json:"accumulatedInterest"`
	InterestRatePercent decimal.Decimal `json:"interestRatePercent"`
	Currency            string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	LastUpdated         *time.Time      `json:"lastUpdated,omitempty"`
}
