package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
)

// ExchangeRateRepository provides data access methods for the exchange_rate table.
type ExchangeRateRepository struct {
	db *sql.DB
}

// NewExchangeRateRepository creates a new ExchangeRateRepository with the provided database connection.
func NewExchangeRateRepository(db *sql.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// ListRates retrieves every stored rate ordered by currency code.
func (r *ExchangeRateRepository) ListRates(ctx context.Context) ([]model.ExchangeRate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT currency, rate, updated_at FROM exchange_rate ORDER BY currency`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange_rate table: %w", err)
	}
	defer rows.Close()

	rates := []model.ExchangeRate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange_rate table: %w", err)
	}

	return rates, nil
}

// GetRate retrieves the stored rate of a currency.
// Returns ErrExchangeRateNotFound if none is stored.
func (r *ExchangeRateRepository) GetRate(ctx context.Context, currency string) (model.ExchangeRate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT currency, rate, updated_at FROM exchange_rate WHERE currency = ?`, currency)

	rate, err := scanRate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}
	return rate, err
}

// UpsertRate stores a rate, replacing any previous value of the currency.
func (r *ExchangeRateRepository) UpsertRate(ctx context.Context, rate model.ExchangeRate) error {
	query := `
        INSERT INTO exchange_rate (currency, rate, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT (currency) DO UPDATE SET
            rate = excluded.rate,
            updated_at = excluded.updated_at
    `

	if _, err := r.db.ExecContext(ctx, query, rate.Currency, rate.Rate, FormatTime(rate.UpdatedAt)); err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return nil
}

// InsertRateIfMissing stores a rate only when the currency has none yet.
// It reports whether a row was inserted.
func (r *ExchangeRateRepository) InsertRateIfMissing(ctx context.Context, rate model.ExchangeRate) (bool, error) {
	query := `INSERT OR IGNORE INTO exchange_rate (currency, rate, updated_at) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, rate.Currency, rate.Rate, FormatTime(rate.UpdatedAt))
	if err != nil {
		return false, fmt.Errorf("failed to insert exchange rate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func scanRate(row rowScanner) (model.ExchangeRate, error) {
	var (
		rate      model.ExchangeRate
		updatedAt string
	)
	err := row.Scan(&rate.Currency, &rate.Rate, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, err
	}
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to scan exchange rate: %w", err)
	}
	if rate.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.ExchangeRate{}, err
	}
	return rate, nil
}
