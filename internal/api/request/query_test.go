package request

import "testing"

func TestParseCurrencyParam(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		want    string
		wantErr bool
	}{
		{name: "empty selects base", param: "", want: "PLN"},
		{name: "uppercases", param: " usd ", want: "USD"},
		{name: "too long", param: "USDT", wantErr: true},
		{name: "digits", param: "U5D", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrencyParam(tt.param)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
