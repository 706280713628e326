package valuation

import (
	"fmt"
	"time"

	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// ValueSource computes the net base-currency value of one source.
//
// A property is worth area * price per unit, minus its bank debt and every
// inline debt (base amount plus accumulated interest); its freshness is the
// source's own LastUpdated. A bank-like source is the sum of its accounts and
// loans minus its debts; its freshness is the newest LastUpdated among its
// records, or nil when it has none. Records are ignored for property sources.
func ValueSource(src model.Source, records []model.SubRecord, rates model.RateTable) model.ValuatedSource {
	conv := &converter{rates: rates}

	var total decimal.Decimal
	var lastUpdated *time.Time

	if src.IsProperty() {
		total = valueProperty(src.Property, conv)
		if !src.LastUpdated.IsZero() {
			t := src.LastUpdated
			lastUpdated = &t
		}
	} else {
		total, lastUpdated = valueRecords(records, conv)
	}

	return model.ValuatedSource{
		Source:            src,
		TotalValue:        total,
		LastUpdated:       lastUpdated,
		UnknownCurrencies: conv.unknown,
	}
}

func valueProperty(p *model.PropertyDetails, conv *converter) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}

	value := conv.toBase(p.AreaM2.Mul(p.PricePerAreaUnit), p.PriceCurrency)
	value = value.Sub(conv.toBase(p.BankDebtAmount, p.BankDebtCurrency))
	for _, debt := range p.OtherDebts {
		value = value.Sub(conv.toBase(debt.Outstanding(), debt.Currency))
	}
	return value
}

func valueRecords(records []model.SubRecord, conv *converter) (decimal.Decimal, *time.Time) {
	total := decimal.Zero
	var latest *time.Time

	for _, r := range records {
		switch rec := r.(type) {
		case *model.Account:
			total = total.Add(conv.toBase(rec.Balance, rec.Currency))
		case *model.Loan:
			total = total.Add(conv.toBase(rec.Outstanding(), rec.Currency))
		case *model.Debt:
			total = total.Sub(conv.toBase(rec.Outstanding(), rec.Currency))
		default:
			panic(fmt.Sprintf("valuation: unhandled sub-record type %T", r))
		}

		updated := r.Header().LastUpdated
		if latest == nil || updated.After(*latest) {
			t := updated
			latest = &t
		}
	}

	return total, latest
}
