package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

// SourceBuilder provides a fluent interface for creating test sources.
//
// Example usage:
//
//	// Bank source with defaults
//	bank := testutil.NewSource(userID).Build(t, db)
//
//	// Property with a mortgage
//	flat := testutil.NewSource(userID).
//	    WithName("Flat").
//	    AsProperty(50, 10000, "PLN").
//	    WithBankDebt(200000, "PLN").
//	    Build(t, db)
type SourceBuilder struct {
	ID          string
	UserID      string
	Name        string
	Kind        model.SourceKind
	LastUpdated time.Time
	Property    model.PropertyDetails
}

// NewSource creates a bank-like SourceBuilder with sensible defaults.
func NewSource(userID string) *SourceBuilder {
	return &SourceBuilder{
		ID:          MakeID(),
		UserID:      userID,
		Name:        MakeName("Test Source"),
		Kind:        model.SourceKindBank,
		LastUpdated: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *SourceBuilder) WithID(id string) *SourceBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *SourceBuilder) WithName(name string) *SourceBuilder {
	b.Name = name
	return b
}

// WithLastUpdated sets the source's own update time.
func (b *SourceBuilder) WithLastUpdated(t time.Time) *SourceBuilder {
	b.LastUpdated = t
	return b
}

// AsProperty turns the source into a property with the given area and price.
func (b *SourceBuilder) AsProperty(areaM2, pricePerAreaUnit float64, currency string) *SourceBuilder {
	b.Kind = model.SourceKindProperty
	b.Property.AreaM2 = decimal.NewFromFloat(areaM2)
	b.Property.PricePerAreaUnit = decimal.NewFromFloat(pricePerAreaUnit)
	b.Property.PriceCurrency = currency
	return b
}

// WithBankDebt sets the property's mortgage.
func (b *SourceBuilder) WithBankDebt(amount float64, currency string) *SourceBuilder {
	b.Property.BankDebtAmount = decimal.NewFromFloat(amount)
	b.Property.BankDebtCurrency = currency
	return b
}

// WithPropertyDebt appends an inline debt to the property.
func (b *SourceBuilder) WithPropertyDebt(name string, baseAmount, ratePercent float64, currency string, lastUpdated time.Time) *SourceBuilder {
	b.Property.OtherDebts = append(b.Property.OtherDebts, model.PropertyDebt{
		ID:          MakeID(),
		Name:        name,
		LastUpdated: lastUpdated,
		InterestBearing: model.InterestBearing{
			BaseAmount:          decimal.NewFromFloat(baseAmount),
			InterestRatePercent: decimal.NewFromFloat(ratePercent),
			Currency:            currency,
		},
	})
	return b
}

// Build creates the source, and its property debts, in the database and returns it.
func (b *SourceBuilder) Build(t *testing.T, db *sql.DB) model.Source {
	t.Helper()

	query := `
		INSERT INTO source (
			id, user_id, name, kind, last_updated,
			area_m2, price_per_area_unit, price_currency, bank_debt_amount, bank_debt_currency
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	p := b.Property
	_, err := db.Exec(query,
		b.ID, b.UserID, b.Name, string(b.Kind), repository.FormatTime(b.LastUpdated),
		p.AreaM2, p.PricePerAreaUnit, p.PriceCurrency, p.BankDebtAmount, p.BankDebtCurrency,
	)
	if err != nil {
		t.Fatalf("Failed to create test source: %v", err)
	}

	src := model.Source{
		ID:          b.ID,
		UserID:      b.UserID,
		Name:        b.Name,
		Kind:        b.Kind,
		LastUpdated: b.LastUpdated,
	}
	if b.Kind != model.SourceKindProperty {
		return src
	}

	debtQuery := `
		INSERT INTO property_debt (
			id, source_id, position, name, base_amount, accumulated_interest,
			interest_rate_percent, currency, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, d := range p.OtherDebts {
		_, err := db.Exec(debtQuery,
			d.ID, b.ID, i, d.Name, d.BaseAmount, d.AccumulatedInterest,
			d.InterestRatePercent, d.Currency, repository.FormatTime(d.LastUpdated),
		)
		if err != nil {
			t.Fatalf("Failed to create test property debt: %v", err)
		}
	}

	details := p
	if details.OtherDebts == nil {
		details.OtherDebts = []model.PropertyDebt{}
	}
	src.Property = &details
	return src
}

// SubRecordBuilder provides a fluent interface for creating accounts, loans and debts.
//
// Example usage:
//
//	testutil.NewAccount(userID, bank.ID).WithBalance(1000).WithCurrency("USD").Build(t, db)
//	testutil.NewDebt(userID, bank.ID).WithBaseAmount(500).WithRate(8).Build(t, db)
type SubRecordBuilder struct {
	Kind                model.SubRecordKind
	ID                  string
	UserID              string
	SourceID            string
	Balance             decimal.Decimal
	BaseAmount          decimal.Decimal
	AccumulatedInterest decimal.Decimal
	InterestRatePercent decimal.Decimal
	Currency            string
	LastUpdated         time.Time
}

func newSubRecord(kind model.SubRecordKind, userID, sourceID string) *SubRecordBuilder {
	return &SubRecordBuilder{
		Kind:        kind,
		ID:          MakeID(),
		UserID:      userID,
		SourceID:    sourceID,
		Currency:    model.BaseCurrency,
		LastUpdated: time.Now().UTC(),
	}
}

// NewAccount creates a SubRecordBuilder for a zero-balance PLN account.
func NewAccount(userID, sourceID string) *SubRecordBuilder {
	return newSubRecord(model.SubRecordAccount, userID, sourceID)
}

// NewLoan creates a SubRecordBuilder for a loan given by the user.
func NewLoan(userID, sourceID string) *SubRecordBuilder {
	return newSubRecord(model.SubRecordLoan, userID, sourceID)
}

// NewDebt creates a SubRecordBuilder for a debt owed by the user.
func NewDebt(userID, sourceID string) *SubRecordBuilder {
	return newSubRecord(model.SubRecordDebt, userID, sourceID)
}

// WithID sets a custom ID.
func (b *SubRecordBuilder) WithID(id string) *SubRecordBuilder {
	b.ID = id
	return b
}

// WithBalance sets an account balance.
func (b *SubRecordBuilder) WithBalance(balance float64) *SubRecordBuilder {
	b.Balance = decimal.NewFromFloat(balance)
	return b
}

// WithBaseAmount sets the principal of a loan or debt.
func (b *SubRecordBuilder) WithBaseAmount(amount float64) *SubRecordBuilder {
	b.BaseAmount = decimal.NewFromFloat(amount)
	return b
}

// WithAccumulatedInterest sets interest accrued so far.
func (b *SubRecordBuilder) WithAccumulatedInterest(amount float64) *SubRecordBuilder {
	b.AccumulatedInterest = decimal.NewFromFloat(amount)
	return b
}

// WithRate sets the annual interest rate in percent.
func (b *SubRecordBuilder) WithRate(percent float64) *SubRecordBuilder {
	b.InterestRatePercent = decimal.NewFromFloat(percent)
	return b
}

// WithCurrency sets the record currency.
func (b *SubRecordBuilder) WithCurrency(currency string) *SubRecordBuilder {
	b.Currency = currency
	return b
}

// WithLastUpdated sets the record's update (or last accrual) time.
func (b *SubRecordBuilder) WithLastUpdated(t time.Time) *SubRecordBuilder {
	b.LastUpdated = t
	return b
}

// Build creates the record in the database and returns it.
func (b *SubRecordBuilder) Build(t *testing.T, db *sql.DB) model.SubRecord {
	t.Helper()

	query := `
		INSERT INTO sub_record (
			id, user_id, source_id, kind, balance, base_amount,
			accumulated_interest, interest_rate_percent, currency, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.SourceID, string(b.Kind), b.Balance, b.BaseAmount,
		b.AccumulatedInterest, b.InterestRatePercent, b.Currency, repository.FormatTime(b.LastUpdated),
	)
	if err != nil {
		t.Fatalf("Failed to create test %s: %v", b.Kind, err)
	}

	header := model.RecordHeader{ID: b.ID, UserID: b.UserID, SourceID: b.SourceID, LastUpdated: b.LastUpdated}
	ib := model.InterestBearing{
		BaseAmount:          b.BaseAmount,
		AccumulatedInterest: b.AccumulatedInterest,
		InterestRatePercent: b.InterestRatePercent,
		Currency:            b.Currency,
	}

	switch b.Kind {
	case model.SubRecordLoan:
		return &model.Loan{RecordHeader: header, InterestBearing: ib}
	case model.SubRecordDebt:
		return &model.Debt{RecordHeader: header, InterestBearing: ib}
	default:
		return &model.Account{RecordHeader: header, Balance: b.Balance, Currency: b.Currency}
	}
}

// SnapshotBuilder provides a fluent interface for creating test snapshots.
type SnapshotBuilder struct {
	ID              string
	UserID          string
	NetWorth        decimal.Decimal
	LiquidAssets    decimal.Decimal
	AssetAllocation []model.AllocationEntry
	Timestamp       time.Time
}

// NewSnapshot creates a SnapshotBuilder timestamped now.
func NewSnapshot(userID string) *SnapshotBuilder {
	return &SnapshotBuilder{
		ID:              MakeID(),
		UserID:          userID,
		AssetAllocation: []model.AllocationEntry{},
		Timestamp:       time.Now().UTC(),
	}
}

// WithNetWorth sets the recorded net worth.
func (b *SnapshotBuilder) WithNetWorth(value float64) *SnapshotBuilder {
	b.NetWorth = decimal.NewFromFloat(value)
	return b
}

// WithLiquidAssets sets the recorded liquid assets.
func (b *SnapshotBuilder) WithLiquidAssets(value float64) *SnapshotBuilder {
	b.LiquidAssets = decimal.NewFromFloat(value)
	return b
}

// WithTimestamp sets when the snapshot was taken.
func (b *SnapshotBuilder) WithTimestamp(t time.Time) *SnapshotBuilder {
	b.Timestamp = t
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.Snapshot {
	t.Helper()

	snap := model.Snapshot{
		ID:              b.ID,
		UserID:          b.UserID,
		NetWorth:        b.NetWorth,
		LiquidAssets:    b.LiquidAssets,
		AssetAllocation: b.AssetAllocation,
		Timestamp:       b.Timestamp,
	}

	if err := repository.NewSnapshotRepository(db).CommitSnapshot(t.Context(), b.UserID, nil, snap); err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}
	return snap
}

// CreateExchangeRate stores a rate for currency.
//
// Example usage:
//
//	testutil.CreateExchangeRate(t, db, "USD", 4.0)
func CreateExchangeRate(t *testing.T, db *sql.DB, currency string, rate float64) model.ExchangeRate {
	t.Helper()

	r := model.ExchangeRate{
		Currency:  currency,
		Rate:      decimal.NewFromFloat(rate),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repository.NewExchangeRateRepository(db).UpsertRate(t.Context(), r); err != nil {
		t.Fatalf("Failed to create test exchange rate: %v", err)
	}
	return r
}
