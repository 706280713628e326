package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestRateService(t *testing.T) {
	ctx := context.Background()

	t.Run("rate table always contains the base currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		testutil.CreateExchangeRate(t, db, "USD", 4.0)

		table, err := svc.Rates.RateTable(ctx)

		if err != nil {
			t.Fatalf("RateTable() returned unexpected error: %v", err)
		}
		if !table[model.BaseCurrency].Equal(decimal.NewFromInt(1)) {
			t.Errorf("Expected base rate 1, got %s", table[model.BaseCurrency])
		}
		if !table["USD"].Equal(dec("4")) {
			t.Errorf("Expected USD rate 4, got %s", table["USD"])
		}
	})

	t.Run("set rate upserts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		testutil.CreateExchangeRate(t, db, "EUR", 4.3)

		if _, err := svc.Rates.SetRate(ctx, "eur", dec("4.25")); err != nil {
			t.Fatalf("SetRate() returned unexpected error: %v", err)
		}

		rates, err := svc.Rates.ListRates(ctx)
		if err != nil {
			t.Fatalf("ListRates() returned unexpected error: %v", err)
		}
		if len(rates) != 1 || rates[0].Currency != "EUR" || !rates[0].Rate.Equal(dec("4.25")) {
			t.Errorf("Expected EUR=4.25, got %+v", rates)
		}
	})

	t.Run("invalid rates are rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)

		tests := []struct {
			name     string
			currency string
			rate     decimal.Decimal
		}{
			{"base currency", "PLN", dec("2")},
			{"zero", "USD", decimal.Zero},
			{"negative", "USD", dec("-1")},
		}
		for _, tt := range tests {
			_, err := svc.Rates.SetRate(ctx, tt.currency, tt.rate)
			if !errors.Is(err, apperrors.ErrInvalidRate) {
				t.Errorf("%s: expected ErrInvalidRate, got %v", tt.name, err)
			}
		}
		if n := testutil.CountRows(t, db, "exchange_rate", ""); n != 0 {
			t.Errorf("Expected no stored rates, got %d", n)
		}
	})

	t.Run("seed never overwrites", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		testutil.CreateExchangeRate(t, db, "USD", 3.9)

		added, err := svc.Rates.Seed(ctx, map[string]decimal.Decimal{
			"USD": dec("4.0"),
			"EUR": dec("4.3"),
			"PLN": dec("1"),
		})

		if err != nil {
			t.Fatalf("Seed() returned unexpected error: %v", err)
		}
		if added != 1 {
			t.Errorf("Expected 1 seeded rate, got %d", added)
		}
		table, err := svc.Rates.RateTable(ctx)
		if err != nil {
			t.Fatalf("RateTable() returned unexpected error: %v", err)
		}
		if !table["USD"].Equal(dec("3.9")) || !table["EUR"].Equal(dec("4.3")) {
			t.Errorf("Unexpected rate table: %v", table)
		}
	})
}
