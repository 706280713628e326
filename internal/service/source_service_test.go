package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damiad/net-worth-tracker/internal/api/request"
	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/testutil"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// TestSourceService_SaveSource tests creating and updating sources.
//
// WHY: Saving is the main mutation of the system. Records must be reconciled
// against the submitted list, accrual markers of interest-bearing records
// must survive edits, and every save must leave exactly one snapshot for
// the day.
func TestSourceService_SaveSource(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a bank source with records and records a snapshot", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()
		testutil.CreateExchangeRate(t, db, "USD", 4.0)

		req := request.SaveSourceRequest{
			Name: " Main Bank ",
			Kind: "bank",
			Records: []request.SubRecordRequest{
				{Kind: "account", Balance: dec("1000"), Currency: "USD"},
				{Kind: "debt", BaseAmount: dec("500"), AccumulatedInterest: dec("50"), Currency: "PLN"},
			},
		}

		// Execute
		saved, err := svc.Sources.SaveSource(ctx, userID, "", req)

		// Assert
		if err != nil {
			t.Fatalf("SaveSource() returned unexpected error: %v", err)
		}
		if saved.Source.ID == "" || saved.Source.Name != "Main Bank" {
			t.Errorf("Unexpected source: %+v", saved.Source)
		}
		if len(saved.Records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(saved.Records))
		}

		got, err := svc.Sources.GetSource(ctx, userID, saved.Source.ID)
		if err != nil {
			t.Fatalf("GetSource() returned unexpected error: %v", err)
		}
		if len(got.Records) != 2 {
			t.Errorf("Expected 2 stored records, got %d", len(got.Records))
		}

		history, err := svc.NetWorth.History(ctx, userID, "")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(history.Snapshots) != 1 {
			t.Fatalf("Expected 1 snapshot, got %d", len(history.Snapshots))
		}
		if !history.Snapshots[0].NetWorth.Equal(dec("3450")) {
			t.Errorf("Expected snapshot net worth 3450, got %s", history.Snapshots[0].NetWorth)
		}
	})

	t.Run("reconciles records on update", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()
		accrued := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		bank := testutil.NewSource(userID).WithName("Bank").Build(t, db)
		kept := testutil.NewAccount(userID, bank.ID).WithBalance(100).WithLastUpdated(accrued).Build(t, db)
		testutil.NewAccount(userID, bank.ID).WithBalance(200).Build(t, db)
		loan := testutil.NewLoan(userID, bank.ID).WithBaseAmount(1000).WithRate(5).WithLastUpdated(accrued).Build(t, db)

		req := request.SaveSourceRequest{
			Name: "Bank",
			Kind: "bank",
			Records: []request.SubRecordRequest{
				{ID: kept.Header().ID, Kind: "account", Balance: dec("150")},
				{ID: loan.Header().ID, Kind: "loan", BaseAmount: dec("1000"), InterestRatePercent: dec("5")},
				{Kind: "account", Balance: dec("10")},
			},
		}

		// Execute
		_, err := svc.Sources.SaveSource(ctx, userID, bank.ID, req)

		// Assert
		if err != nil {
			t.Fatalf("SaveSource() returned unexpected error: %v", err)
		}

		got, err := svc.Sources.GetSource(ctx, userID, bank.ID)
		if err != nil {
			t.Fatalf("GetSource() returned unexpected error: %v", err)
		}
		if len(got.Records) != 3 {
			t.Fatalf("Expected 3 records after reconcile, got %d", len(got.Records))
		}

		for _, r := range got.Records {
			switch r.Header().ID {
			case kept.Header().ID:
				acc := r.(*model.Account)
				if !acc.Balance.Equal(dec("150")) {
					t.Errorf("Expected updated balance 150, got %s", acc.Balance)
				}
				if !acc.LastUpdated.After(accrued) {
					t.Errorf("Expected account lastUpdated to be refreshed, got %v", acc.LastUpdated)
				}
			case loan.Header().ID:
				if !r.Header().LastUpdated.Equal(accrued) {
					t.Errorf("Expected loan to keep accrual marker %v, got %v", accrued, r.Header().LastUpdated)
				}
			}
		}
	})

	t.Run("switching to property drops sub-records", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()

		bank := testutil.NewSource(userID).Build(t, db)
		testutil.NewAccount(userID, bank.ID).WithBalance(100).Build(t, db)

		req := request.SaveSourceRequest{
			Name: "Flat",
			Kind: "property",
			Property: &request.PropertyRequest{
				AreaM2:           dec("50"),
				PricePerAreaUnit: dec("10000"),
				BankDebtAmount:   dec("200000"),
				OtherDebts:       []request.PropertyDebtRequest{{BaseAmount: dec("1000")}},
			},
		}

		// Execute
		saved, err := svc.Sources.SaveSource(ctx, userID, bank.ID, req)

		// Assert
		if err != nil {
			t.Fatalf("SaveSource() returned unexpected error: %v", err)
		}
		if n := testutil.CountRows(t, db, "sub_record", "source_id = ?", bank.ID); n != 0 {
			t.Errorf("Expected sub-records to be removed, found %d", n)
		}
		if saved.Source.Property == nil || len(saved.Source.Property.OtherDebts) != 1 {
			t.Fatalf("Expected one property debt, got %+v", saved.Source.Property)
		}
		if saved.Source.Property.OtherDebts[0].Name != model.DefaultDebtName {
			t.Errorf("Expected default debt name, got %q", saved.Source.Property.OtherDebts[0].Name)
		}

		overview, err := svc.NetWorth.Overview(ctx, userID, "")
		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if !overview.NetWorth.Equal(dec("299000")) {
			t.Errorf("Expected net worth 299000, got %s", overview.NetWorth)
		}
	})

	t.Run("updating a missing source fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)

		_, err := svc.Sources.SaveSource(ctx, testutil.MakeID(), testutil.MakeID(), request.SaveSourceRequest{Name: "X", Kind: "bank"})

		if !errors.Is(err, apperrors.ErrSourceNotFound) {
			t.Errorf("Expected ErrSourceNotFound, got %v", err)
		}
	})

	t.Run("another user's source is not visible", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		owner := testutil.MakeID()
		src := testutil.NewSource(owner).Build(t, db)

		_, err := svc.Sources.SaveSource(ctx, testutil.MakeID(), src.ID, request.SaveSourceRequest{Name: "Stolen", Kind: "bank"})

		if !errors.Is(err, apperrors.ErrSourceNotFound) {
			t.Errorf("Expected ErrSourceNotFound, got %v", err)
		}
	})

	t.Run("a record id of another source is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()

		bank, err := svc.Sources.SaveSource(ctx, userID, "", request.SaveSourceRequest{
			Name:    "Bank",
			Kind:    "bank",
			Records: []request.SubRecordRequest{{Kind: "account", Balance: dec("100")}},
		})
		if err != nil {
			t.Fatalf("SaveSource() returned unexpected error: %v", err)
		}

		_, err = svc.Sources.SaveSource(ctx, userID, "", request.SaveSourceRequest{
			Name:    "Wallet",
			Kind:    "bank",
			Records: []request.SubRecordRequest{{ID: bank.Records[0].Header().ID, Kind: "account", Balance: dec("5")}},
		})
		if !errors.Is(err, apperrors.ErrSubRecordNotFound) {
			t.Fatalf("Expected ErrSubRecordNotFound, got %v", err)
		}

		got, err := svc.Sources.GetSource(ctx, userID, bank.Source.ID)
		if err != nil {
			t.Fatalf("GetSource() returned unexpected error: %v", err)
		}
		if len(got.Records) != 1 {
			t.Fatalf("Expected the bank to keep its record, got %d", len(got.Records))
		}
		if !got.Records[0].(*model.Account).Balance.Equal(dec("100")) {
			t.Errorf("Expected balance 100, got %s", got.Records[0].(*model.Account).Balance)
		}
		if n := testutil.CountRows(t, db, "source", "user_id = ?", userID); n != 1 {
			t.Errorf("Expected the wallet not to be created, got %d sources", n)
		}
	})

	t.Run("a property debt id of another source is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()
		flat := testutil.NewSource(userID).AsProperty(50, 10000, "PLN").
			WithPropertyDebt("Family", 1000, 0, "PLN", time.Now().UTC()).Build(t, db)

		_, err := svc.Sources.SaveSource(ctx, userID, "", request.SaveSourceRequest{
			Name: "House",
			Kind: "property",
			Property: &request.PropertyRequest{
				AreaM2:           dec("100"),
				PricePerAreaUnit: dec("5000"),
				OtherDebts: []request.PropertyDebtRequest{
					{ID: flat.Property.OtherDebts[0].ID, Name: "Stolen", BaseAmount: dec("1")},
				},
			},
		})
		if !errors.Is(err, apperrors.ErrPropertyDebtNotFound) {
			t.Fatalf("Expected ErrPropertyDebtNotFound, got %v", err)
		}

		got, err := svc.Sources.GetSource(ctx, userID, flat.ID)
		if err != nil {
			t.Fatalf("GetSource() returned unexpected error: %v", err)
		}
		if debts := got.Source.Property.OtherDebts; len(debts) != 1 || debts[0].Name != "Family" {
			t.Errorf("Expected the flat's debt to be untouched, got %+v", debts)
		}
	})

	t.Run("saving twice on one day keeps one snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()

		saved, err := svc.Sources.SaveSource(ctx, userID, "", request.SaveSourceRequest{
			Name:    "Wallet",
			Kind:    "bank",
			Records: []request.SubRecordRequest{{Kind: "account", Balance: dec("10")}},
		})
		if err != nil {
			t.Fatalf("first SaveSource() returned unexpected error: %v", err)
		}
		_, err = svc.Sources.SaveSource(ctx, userID, saved.Source.ID, request.SaveSourceRequest{
			Name:    "Wallet",
			Kind:    "bank",
			Records: []request.SubRecordRequest{{ID: saved.Records[0].Header().ID, Kind: "account", Balance: dec("20")}},
		})
		if err != nil {
			t.Fatalf("second SaveSource() returned unexpected error: %v", err)
		}

		history, err := svc.NetWorth.History(ctx, userID, "")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(history.Snapshots) != 1 {
			t.Fatalf("Expected 1 snapshot, got %d", len(history.Snapshots))
		}
		if !history.Snapshots[0].NetWorth.Equal(dec("20")) {
			t.Errorf("Expected last saved value 20, got %s", history.Snapshots[0].NetWorth)
		}
	})
}

// TestSourceService_DeleteSource tests source deletion.
func TestSourceService_DeleteSource(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the source and its records", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()

		bank := testutil.NewSource(userID).Build(t, db)
		testutil.NewAccount(userID, bank.ID).WithBalance(100).Build(t, db)
		flat := testutil.NewSource(userID).
			AsProperty(10, 1000, "PLN").
			WithPropertyDebt("Family", 100, 0, "PLN", time.Now()).
			Build(t, db)

		// Execute
		if err := svc.Sources.DeleteSource(ctx, userID, bank.ID); err != nil {
			t.Fatalf("DeleteSource(bank) returned unexpected error: %v", err)
		}
		if err := svc.Sources.DeleteSource(ctx, userID, flat.ID); err != nil {
			t.Fatalf("DeleteSource(flat) returned unexpected error: %v", err)
		}

		// Assert
		for _, table := range []string{"source", "sub_record", "property_debt"} {
			if n := testutil.CountRows(t, db, table, ""); n != 0 {
				t.Errorf("Expected %s to be empty, found %d rows", table, n)
			}
		}

		history, err := svc.NetWorth.History(ctx, userID, "")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(history.Snapshots) != 1 || !history.Snapshots[0].NetWorth.IsZero() {
			t.Errorf("Expected one zero snapshot, got %+v", history.Snapshots)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)

		err := svc.Sources.DeleteSource(ctx, testutil.MakeID(), testutil.MakeID())

		if !errors.Is(err, apperrors.ErrSourceNotFound) {
			t.Errorf("Expected ErrSourceNotFound, got %v", err)
		}
	})
}

// TestSourceService_ListSources tests listing with records attached.
func TestSourceService_ListSources(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestServices(t, db, time.UTC)
	userID := testutil.MakeID()

	bank := testutil.NewSource(userID).WithName("Bank").Build(t, db)
	testutil.NewAccount(userID, bank.ID).Build(t, db)
	testutil.NewDebt(userID, bank.ID).WithBaseAmount(10).Build(t, db)
	testutil.NewSource(userID).WithName("Flat").AsProperty(1, 1, "PLN").Build(t, db)
	testutil.NewSource(testutil.MakeID()).Build(t, db)

	sources, err := svc.Sources.ListSources(ctx, userID)
	if err != nil {
		t.Fatalf("ListSources() returned unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(sources))
	}
	if sources[0].Source.Name != "Bank" || len(sources[0].Records) != 2 {
		t.Errorf("Expected Bank with 2 records, got %s with %d", sources[0].Source.Name, len(sources[0].Records))
	}
	if sources[1].Source.Property == nil || len(sources[1].Records) != 0 {
		t.Errorf("Expected property without records, got %+v", sources[1])
	}
}
