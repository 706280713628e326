package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/testutil"
)

// TestNetWorthService_Overview tests the aggregated view of a user's sources.
//
// WHY: The overview is what every screen renders. Conversion into the base
// currency must happen before summing, and the display currency must be
// applied to every amount.
func TestNetWorthService_Overview(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testutil.Services, string) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()

		testutil.CreateExchangeRate(t, db, "USD", 4.0)

		testutil.NewSource(userID).WithName("Flat").
			AsProperty(50, 10000, "PLN").
			WithBankDebt(200000, "PLN").
			Build(t, db)
		bank := testutil.NewSource(userID).WithName("Bank").Build(t, db)
		testutil.NewAccount(userID, bank.ID).WithBalance(1000).WithCurrency("USD").Build(t, db)
		testutil.NewDebt(userID, bank.ID).WithBaseAmount(500).WithAccumulatedInterest(50).Build(t, db)
		wallet := testutil.NewSource(userID).WithName("Wallet").Build(t, db)
		testutil.NewAccount(userID, wallet.ID).WithBalance(100).Build(t, db)
		testutil.NewSource(userID).WithName("Empty").Build(t, db)

		return svc, userID
	}

	t.Run("base currency", func(t *testing.T) {
		// Setup
		svc, userID := setup(t)

		// Execute
		overview, err := svc.NetWorth.Overview(ctx, userID, "")

		// Assert
		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if overview.Currency != model.BaseCurrency {
			t.Errorf("Expected currency %s, got %s", model.BaseCurrency, overview.Currency)
		}
		if !overview.NetWorth.Equal(dec("303550")) {
			t.Errorf("Expected net worth 303550, got %s", overview.NetWorth)
		}
		if !overview.LiquidAssets.Equal(dec("3550")) {
			t.Errorf("Expected liquid assets 3550, got %s", overview.LiquidAssets)
		}

		wantOrder := []string{"Flat", "Bank", "Wallet", "Empty"}
		if len(overview.Sources) != len(wantOrder) {
			t.Fatalf("Expected %d sources, got %d", len(wantOrder), len(overview.Sources))
		}
		for i, name := range wantOrder {
			if overview.Sources[i].Source.Name != name {
				t.Errorf("Sources[%d] = %s, want %s", i, overview.Sources[i].Source.Name, name)
			}
		}
		if overview.Sources[3].LastUpdated != nil {
			t.Errorf("Expected nil lastUpdated for a source without records")
		}

		if len(overview.AssetAllocation) != 2 {
			t.Fatalf("Expected 2 allocation entries, got %+v", overview.AssetAllocation)
		}
		if overview.AssetAllocation[0].Name != "Flat" {
			t.Errorf("Expected Flat first, got %s", overview.AssetAllocation[0].Name)
		}
		last := overview.AssetAllocation[1]
		if last.Name != model.OtherBucketName || !last.Value.Equal(dec("3550")) {
			t.Errorf("Expected Other=3550, got %s=%s", last.Name, last.Value)
		}
	})

	t.Run("display currency", func(t *testing.T) {
		svc, userID := setup(t)

		overview, err := svc.NetWorth.Overview(ctx, userID, "USD")

		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if overview.Currency != "USD" {
			t.Errorf("Expected currency USD, got %s", overview.Currency)
		}
		if overview.NetWorth.StringFixed(2) != "75887.50" {
			t.Errorf("Expected net worth 75887.50, got %s", overview.NetWorth.StringFixed(2))
		}
		if overview.Sources[1].TotalValue.StringFixed(2) != "862.50" {
			t.Errorf("Expected Bank at 862.50, got %s", overview.Sources[1].TotalValue.StringFixed(2))
		}
	})

	t.Run("unknown display currency falls back to base", func(t *testing.T) {
		svc, userID := setup(t)

		overview, err := svc.NetWorth.Overview(ctx, userID, "CHF")

		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if overview.Currency != model.BaseCurrency || !overview.NetWorth.Equal(dec("303550")) {
			t.Errorf("Expected base overview, got %s %s", overview.NetWorth, overview.Currency)
		}
	})

	t.Run("user without sources", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)

		overview, err := svc.NetWorth.Overview(ctx, testutil.MakeID(), "")

		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if !overview.NetWorth.IsZero() || len(overview.Sources) != 0 || len(overview.AssetAllocation) != 0 {
			t.Errorf("Expected empty overview, got %+v", overview)
		}
	})
}

// TestNetWorthService_History tests the snapshot history.
func TestNetWorthService_History(t *testing.T) {
	ctx := context.Background()

	// Setup
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, time.UTC)
	userID := testutil.MakeID()
	testutil.CreateExchangeRate(t, db, "EUR", 4.0)

	testutil.NewSnapshot(userID).
		WithNetWorth(800).
		WithLiquidAssets(400).
		WithTimestamp(time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)).
		Build(t, db)
	testutil.NewSnapshot(userID).
		WithNetWorth(400).
		WithLiquidAssets(200).
		WithTimestamp(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)).
		Build(t, db)
	testutil.NewSnapshot(testutil.MakeID()).WithNetWorth(1).Build(t, db)

	// Execute
	history, err := svc.NetWorth.History(ctx, userID, "EUR")

	// Assert
	if err != nil {
		t.Fatalf("History() returned unexpected error: %v", err)
	}
	if history.Currency != "EUR" {
		t.Errorf("Expected currency EUR, got %s", history.Currency)
	}
	if len(history.Snapshots) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(history.Snapshots))
	}
	if !history.Snapshots[0].NetWorth.Equal(dec("100")) || !history.Snapshots[1].NetWorth.Equal(dec("200")) {
		t.Errorf("Expected oldest-first 100, 200; got %s, %s", history.Snapshots[0].NetWorth, history.Snapshots[1].NetWorth)
	}
	if !history.Snapshots[1].LiquidAssets.Equal(dec("100")) {
		t.Errorf("Expected liquid assets 100, got %s", history.Snapshots[1].LiquidAssets)
	}
}
