package service

import (
	"context"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

// RateService manages the base-currency exchange rate table.
type RateService struct {
	rateRepo *repository.ExchangeRateRepository
}

// NewRateService creates a new RateService.
func NewRateService(rateRepo *repository.ExchangeRateRepository) *RateService {
	return &RateService{
		rateRepo: rateRepo,
	}
}

// RateTable returns the stored rates plus the base currency at rate 1.
func (s *RateService) RateTable(ctx context.Context) (model.RateTable, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, err
	}

	table := make(model.RateTable, len(rates)+1)
	for _, r := range rates {
		table[r.Currency] = r.Rate
	}
	table[model.BaseCurrency] = decimal.NewFromInt(1)
	return table, nil
}

// ListRates returns the stored rates ordered by currency.
func (s *RateService) ListRates(ctx context.Context) ([]model.ExchangeRate, error) {
	return s.rateRepo.ListRates(ctx)
}

// SetRate stores a positive rate for a non-base currency.
func (s *RateService) SetRate(ctx context.Context, currency string, rate decimal.Decimal) (model.ExchangeRate, error) {
	currency = strings.ToUpper(currency)
	if currency == model.BaseCurrency {
		return model.ExchangeRate{}, fmt.Errorf("%w: the base currency is fixed at 1", apperrors.ErrInvalidRate)
	}
	if !rate.IsPositive() {
		return model.ExchangeRate{}, apperrors.ErrInvalidRate
	}

	r := model.ExchangeRate{
		Currency:  currency,
		Rate:      rate,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.rateRepo.UpsertRate(ctx, r); err != nil {
		return model.ExchangeRate{}, err
	}
	return r, nil
}

// Seed stores every rate whose currency has no stored value yet.
// Existing rates are never overwritten. It returns the number of rates added.
func (s *RateService) Seed(ctx context.Context, rates map[string]decimal.Decimal) (int, error) {
	added := 0
	now := time.Now().UTC()

	for _, currency := range slices.Sorted(maps.Keys(rates)) {
		rate := rates[currency]
		if currency == model.BaseCurrency || !rate.IsPositive() {
			continue
		}

		inserted, err := s.rateRepo.InsertRateIfMissing(ctx, model.ExchangeRate{
			Currency:  currency,
			Rate:      rate,
			UpdatedAt: now,
		})
		if err != nil {
			return added, err
		}
		if inserted {
			log.Printf("Seeded exchange rate %s=%s", currency, rate)
			added++
		}
	}

	return added, nil
}
