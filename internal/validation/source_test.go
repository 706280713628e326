package validation

import (
	"errors"
	"testing"

	"github.com/damiad/net-worth-tracker/internal/api/request"
	"github.com/shopspring/decimal"
)

func TestValidateSaveSource(t *testing.T) {
	d := decimal.RequireFromString

	tests := []struct {
		name       string
		req        request.SaveSourceRequest
		wantFields []string
	}{
		{
			name: "valid bank source",
			req: request.SaveSourceRequest{
				Name: "Bank",
				Kind: "bank",
				Records: []request.SubRecordRequest{
					{Kind: "account", Balance: d("-50"), Currency: "USD"},
					{Kind: "debt", BaseAmount: d("500"), InterestRatePercent: d("7.5")},
				},
			},
		},
		{
			name: "valid property",
			req: request.SaveSourceRequest{
				Name: "Flat",
				Kind: "property",
				Property: &request.PropertyRequest{
					AreaM2:           d("50"),
					PricePerAreaUnit: d("10000"),
					OtherDebts:       []request.PropertyDebtRequest{{Name: "Family", BaseAmount: d("1000")}},
				},
			},
		},
		{
			name:       "missing name and kind",
			req:        request.SaveSourceRequest{Name: "  "},
			wantFields: []string{"name", "kind"},
		},
		{
			name:       "property without details",
			req:        request.SaveSourceRequest{Name: "Flat", Kind: "property"},
			wantFields: []string{"property"},
		},
		{
			name: "negative property values",
			req: request.SaveSourceRequest{
				Name: "Flat",
				Kind: "property",
				Property: &request.PropertyRequest{
					AreaM2:     d("-1"),
					OtherDebts: []request.PropertyDebtRequest{{InterestRatePercent: d("-2")}},
				},
			},
			wantFields: []string{"property.areaM2", "property.otherDebts[0].interestRatePercent"},
		},
		{
			name: "bad record",
			req: request.SaveSourceRequest{
				Name: "Bank",
				Kind: "bank",
				Records: []request.SubRecordRequest{
					{Kind: "savings"},
					{Kind: "loan", BaseAmount: d("-10"), Currency: "usd"},
				},
			},
			wantFields: []string{"records[0].kind", "records[1].baseAmount", "records[1].currency"},
		},
		{
			name: "duplicated record id",
			req: request.SaveSourceRequest{
				Name: "Bank",
				Kind: "bank",
				Records: []request.SubRecordRequest{
					{ID: "0b5f1a4e-8f3c-4f7e-9a51-2f6a3c9d1e01", Kind: "account"},
					{ID: "0b5f1a4e-8f3c-4f7e-9a51-2f6a3c9d1e01", Kind: "account"},
				},
			},
			wantFields: []string{"records[1].id"},
		},
		{
			name: "duplicated property debt id",
			req: request.SaveSourceRequest{
				Name: "Flat",
				Kind: "property",
				Property: &request.PropertyRequest{
					OtherDebts: []request.PropertyDebtRequest{
						{ID: "6d2c7b90-1a4e-4b8f-8c3d-5e9f0a1b2c03", Name: "Family"},
						{ID: "6d2c7b90-1a4e-4b8f-8c3d-5e9f0a1b2c03", Name: "Renovation"},
					},
				},
			},
			wantFields: []string{"property.otherDebts[1].id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSaveSource(tt.req)

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			for _, field := range tt.wantFields {
				if _, ok := verr.Fields[field]; !ok {
					t.Errorf("expected error for field %q, got %v", field, verr.Fields)
				}
			}
		})
	}
}

func TestValidateSetExchangeRate(t *testing.T) {
	if err := ValidateSetExchangeRate("USD", request.SetExchangeRateRequest{Rate: decimal.RequireFromString("4.1")}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSetExchangeRate("USD", request.SetExchangeRateRequest{}); err == nil {
		t.Error("expected error for zero rate")
	}
	if err := ValidateSetExchangeRate("DOLLAR", request.SetExchangeRateRequest{Rate: decimal.NewFromInt(1)}); err == nil {
		t.Error("expected error for bad currency")
	}
}

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID("0b5f1a4e-8f3c-4f7e-9a51-2f6a3c9d1e01"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateUUID("not-a-uuid"); !errors.Is(err, ErrInvalidUUID) {
		t.Errorf("expected ErrInvalidUUID, got %v", err)
	}
}
