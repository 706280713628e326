package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubRecordKind is the persisted discriminator of a SubRecord variant.
type SubRecordKind string

const (
	SubRecordAccount SubRecordKind = "account"
	SubRecordLoan    SubRecordKind = "loan"
	SubRecordDebt    SubRecordKind = "debt"
)

// SubRecord is an entry owned by a bank-like source. It is one of *Account,
// *Loan or *Debt; consumers switch on the concrete type.
type SubRecord interface {
	Kind() SubRecordKind
	Header() *RecordHeader
}

// RecordHeader carries the identity and ownership fields common to every sub-record.
type RecordHeader struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SourceID    string    `json:"sourceId"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Header returns the record header so variants can be handled uniformly.
func (h *RecordHeader) Header() *RecordHeader { return h }

// Account is a cash balance held in a single currency.
type Account struct {
	RecordHeader
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// Loan is money owed to the user. It counts as an asset.
type Loan struct {
	RecordHeader
	InterestBearing
}

// Debt is money owed by the user. It counts as a liability.
type Debt struct {
	RecordHeader
	InterestBearing
}

func (*Account) Kind() SubRecordKind { return SubRecordAccount }
func (*Loan) Kind() SubRecordKind    { return SubRecordLoan }
func (*Debt) Kind() SubRecordKind    { return SubRecordDebt }

// GroupBySource indexes sub-records by their owning source ID, preserving input order.
func GroupBySource(records []SubRecord) map[string][]SubRecord {
	grouped := make(map[string][]SubRecord)
	for _, r := range records {
		sourceID := r.Header().SourceID
		grouped[sourceID] = append(grouped[sourceID], r)
	}
	return grouped
}

// SourceWithRecords is a source together with the sub-records it owns.
// Records is empty for property sources.
type SourceWithRecords struct {
	Source  Source
	Records []SubRecord
}
