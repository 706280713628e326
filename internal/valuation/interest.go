package valuation

import (
	"math"
	"time"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Accrual is the outcome of folding elapsed interest into a record.
// Applied is false when the rate is zero and nothing changed.
type Accrual struct {
	AccumulatedInterest decimal.Decimal
	LastAccrued         time.Time
	Applied             bool
}

// Accrue compounds interest on base amount plus accumulated interest from the
// calendar day of lastAccrued up to the calendar day of now, both taken in loc.
//
// The elapsed span is split at every January 1st so each chunk of d days in a
// year of Y days grows the principal by (1 + rate/100)^(d/Y). At most one
// accrual per calendar day is allowed: when now is not on a later day than
// lastAccrued the record is left untouched and ErrAlreadyAccruedToday is
// returned. A zero lastAccrued counts as today. The base amount is never
// changed.
func Accrue(item model.InterestBearing, lastAccrued, now time.Time, loc *time.Location) (Accrual, error) {
	unchanged := Accrual{
		AccumulatedInterest: item.AccumulatedInterest,
		LastAccrued:         lastAccrued,
	}

	if lastAccrued.IsZero() {
		lastAccrued = now
	}
	from := civilDate(lastAccrued, loc)
	to := civilDate(now, loc)
	if !to.After(from) {
		return unchanged, apperrors.ErrAlreadyAccruedToday
	}

	if !item.InterestRatePercent.IsPositive() {
		return unchanged, nil
	}

	growth := 1 + item.InterestRatePercent.Div(hundred).InexactFloat64()
	principal := item.Outstanding()

	for day := from; day.Before(to); {
		nextYear := time.Date(day.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := nextYear
		if to.Before(nextYear) {
			end = to
		}

		days := daysBetween(day, end)
		factor := math.Pow(growth, float64(days)/float64(daysInYear(day.Year())))
		principal = principal.Mul(decimal.NewFromFloat(factor))

		day = end
	}

	return Accrual{
		AccumulatedInterest: principal.Sub(item.BaseAmount),
		LastAccrued:         now,
		Applied:             true,
	}, nil
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}
