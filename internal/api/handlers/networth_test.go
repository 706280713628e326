package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/testutil"
)

func TestNetWorthHandler_Overview(t *testing.T) {
	setup := func(t *testing.T) (*NetWorthHandler, string) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		userID := testutil.MakeID()

		testutil.CreateExchangeRate(t, db, "USD", 4.0)
		bank := testutil.NewSource(userID).WithName("Bank").Build(t, db)
		testutil.NewAccount(userID, bank.ID).WithBalance(1000).WithCurrency("USD").Build(t, db)
		testutil.NewDebt(userID, bank.ID).WithBaseAmount(500).WithAccumulatedInterest(50).Build(t, db)

		return NewNetWorthHandler(svc.NetWorth), userID
	}

	t.Run("returns the overview in the base currency", func(t *testing.T) {
		handler, userID := setup(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/user/"+userID+"/overview",
			map[string]string{"userId": userID})
		w := httptest.NewRecorder()

		handler.Overview(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.DecodeJSON[OverviewResponse](t, w)
		if resp.Currency != model.BaseCurrency || resp.NetWorth.Value != 3450 {
			t.Errorf("Unexpected overview: %+v", resp)
		}
		if len(resp.Sources) != 1 || resp.Sources[0].LastUpdated == nil {
			t.Errorf("Expected one source with lastUpdated, got %+v", resp.Sources)
		}
		if len(resp.AssetAllocation) != 1 || resp.AssetAllocation[0].Name != "Bank" {
			t.Errorf("Unexpected allocation: %+v", resp.AssetAllocation)
		}
	})

	t.Run("converts into the display currency", func(t *testing.T) {
		handler, userID := setup(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/user/"+userID+"/overview?currency=usd",
			map[string]string{"userId": userID})
		w := httptest.NewRecorder()

		handler.Overview(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.DecodeJSON[OverviewResponse](t, w)
		if resp.Currency != "USD" || resp.Symbol != "$" {
			t.Errorf("Expected USD/$, got %s/%s", resp.Currency, resp.Symbol)
		}
		if resp.NetWorth.Value != 862.5 || resp.NetWorth.Display != "$862.50" {
			t.Errorf("Expected $862.50, got %+v", resp.NetWorth)
		}
	})

	t.Run("rejects a malformed currency", func(t *testing.T) {
		handler, userID := setup(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/user/"+userID+"/overview?currency=dollars",
			map[string]string{"userId": userID})
		w := httptest.NewRecorder()

		handler.Overview(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestNetWorthHandler_Snapshots(t *testing.T) {
	t.Run("returns history oldest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		handler := NewNetWorthHandler(svc.NetWorth)
		userID := testutil.MakeID()

		testutil.NewSnapshot(userID).WithNetWorth(200).WithTimestamp(time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)).Build(t, db)
		testutil.NewSnapshot(userID).WithNetWorth(100).WithTimestamp(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/user/"+userID+"/snapshots",
			map[string]string{"userId": userID})
		w := httptest.NewRecorder()

		handler.Snapshots(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.DecodeJSON[SnapshotHistoryResponse](t, w)
		if len(resp.Snapshots) != 2 || resp.Snapshots[0].NetWorth != 100 || resp.Snapshots[1].NetWorth != 200 {
			t.Errorf("Unexpected history: %+v", resp.Snapshots)
		}
	})

	t.Run("returns an empty list for a new user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		handler := NewNetWorthHandler(svc.NetWorth)
		userID := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/user/"+userID+"/snapshots",
			map[string]string{"userId": userID})
		w := httptest.NewRecorder()

		handler.Snapshots(w, req)

		resp := testutil.DecodeJSON[SnapshotHistoryResponse](t, w)
		if resp.Snapshots == nil || len(resp.Snapshots) != 0 {
			t.Errorf("Expected empty array, got %+v", resp.Snapshots)
		}
	})
}
