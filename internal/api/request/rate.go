package request

import "github.com/shopspring/decimal"

type SetExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}
