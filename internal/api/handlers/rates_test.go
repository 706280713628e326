package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damiad/net-worth-tracker/internal/testutil"
)

func TestRateHandler(t *testing.T) {
	t.Run("lists stored rates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		handler := NewRateHandler(svc.Rates)
		testutil.CreateExchangeRate(t, db, "USD", 4.0)
		testutil.CreateExchangeRate(t, db, "EUR", 4.3)

		req := httptest.NewRequest(http.MethodGet, "/api/rates", nil)
		w := httptest.NewRecorder()

		handler.Rates(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		rates := testutil.DecodeJSON[[]ExchangeRateResponse](t, w)
		if len(rates) != 2 || rates[0].Currency != "EUR" || rates[1].Rate != 4.0 {
			t.Errorf("Unexpected rates: %+v", rates)
		}
	})

	t.Run("updates a rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		handler := NewRateHandler(svc.Rates)

		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPut, "/api/rates/usd",
			map[string]string{"currency": "usd"}, `{"rate": 4.1}`)
		w := httptest.NewRecorder()

		handler.SetRate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		rate := testutil.DecodeJSON[ExchangeRateResponse](t, w)
		if rate.Currency != "USD" || rate.Rate != 4.1 {
			t.Errorf("Unexpected rate: %+v", rate)
		}
	})

	t.Run("rejects invalid updates", func(t *testing.T) {
		tests := []struct {
			name     string
			currency string
			body     string
		}{
			{"zero rate", "USD", `{"rate": 0}`},
			{"negative rate", "USD", `{"rate": -2}`},
			{"base currency", "PLN", `{"rate": 2}`},
			{"bad code", "DOLLAR", `{"rate": 2}`},
			{"malformed body", "USD", `{"rate":`},
		}

		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, time.UTC)
		handler := NewRateHandler(svc.Rates)

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := testutil.NewJSONRequestWithURLParams(t, http.MethodPut, "/api/rates/"+tt.currency,
					map[string]string{"currency": tt.currency}, tt.body)
				w := httptest.NewRecorder()

				handler.SetRate(w, req)

				if w.Code != http.StatusBadRequest {
					t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
				}
			})
		}

		if n := testutil.CountRows(t, db, "exchange_rate", ""); n != 0 {
			t.Errorf("Expected no stored rates, got %d", n)
		}
	})
}
