package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// PropertyDebtRepository provides data access methods for the property_debt
// table, the inline liabilities of property sources. Debts keep the order in
// which they were saved.
type PropertyDebtRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPropertyDebtRepository creates a new PropertyDebtRepository with the provided database connection.
func NewPropertyDebtRepository(db *sql.DB) *PropertyDebtRepository {
	return &PropertyDebtRepository{db: db}
}

// WithTx returns a new PropertyDebtRepository scoped to the provided transaction.
func (r *PropertyDebtRepository) WithTx(tx *sql.Tx) *PropertyDebtRepository {
	return &PropertyDebtRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *PropertyDebtRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const propertyDebtColumns = `
	d.id, d.source_id, d.name, d.base_amount, d.accumulated_interest,
	d.interest_rate_percent, d.currency, d.last_updated
`

// ListBySource retrieves the debts of one property source.
func (r *PropertyDebtRepository) ListBySource(ctx context.Context, sourceID string) ([]model.PropertyDebt, error) {
	query := `SELECT ` + propertyDebtColumns + ` FROM property_debt d WHERE d.source_id = ? ORDER BY d.position`

	grouped, err := r.query(ctx, query, sourceID)
	if err != nil {
		return nil, err
	}
	return nonNil(grouped[sourceID]), nil
}

func (r *PropertyDebtRepository) listByUser(ctx context.Context, userID string) (map[string][]model.PropertyDebt, error) {
	query := `
        SELECT ` + propertyDebtColumns + `
        FROM property_debt d
        JOIN source s ON s.id = d.source_id
        WHERE s.user_id = ?
        ORDER BY d.source_id, d.position
    `
	return r.query(ctx, query, userID)
}

// GetPropertyDebt retrieves a single debt of a user's property source.
// Returns ErrPropertyDebtNotFound if it does not exist.
func (r *PropertyDebtRepository) GetPropertyDebt(ctx context.Context, userID, sourceID, debtID string) (model.PropertyDebt, error) {
	query := `
        SELECT ` + propertyDebtColumns + `
        FROM property_debt d
        JOIN source s ON s.id = d.source_id
        WHERE d.id = ? AND d.source_id = ? AND s.user_id = ?
    `

	grouped, err := r.query(ctx, query, debtID, sourceID, userID)
	if err != nil {
		return model.PropertyDebt{}, err
	}
	if len(grouped[sourceID]) == 0 {
		return model.PropertyDebt{}, apperrors.ErrPropertyDebtNotFound
	}
	return grouped[sourceID][0], nil
}

// ReplaceForSource deletes the stored debts of a source and inserts debts in
// their given order. Returns ErrPropertyDebtNotFound if a debt id belongs to
// another source.
func (r *PropertyDebtRepository) ReplaceForSource(ctx context.Context, sourceID string, debts []model.PropertyDebt) error {
	if err := r.DeleteBySource(ctx, sourceID); err != nil {
		return err
	}

	query := `
        INSERT INTO property_debt (
            id, source_id, position, name, base_amount, accumulated_interest,
            interest_rate_percent, currency, last_updated
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO NOTHING
    `

	for i, d := range debts {
		result, err := r.getQuerier().ExecContext(ctx, query,
			d.ID,
			sourceID,
			i,
			d.Name,
			d.BaseAmount,
			d.AccumulatedInterest,
			d.InterestRatePercent,
			d.Currency,
			FormatTime(d.LastUpdated),
		)
		if err != nil {
			return fmt.Errorf("failed to insert property debt: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		// This source's debts were deleted above, so a conflict is another source's debt.
		if rowsAffected == 0 {
			return apperrors.ErrPropertyDebtNotFound
		}
	}

	return nil
}

// DeleteBySource removes every debt of a source.
func (r *PropertyDebtRepository) DeleteBySource(ctx context.Context, sourceID string) error {
	_, err := r.getQuerier().ExecContext(ctx, `DELETE FROM property_debt WHERE source_id = ?`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete property debts: %w", err)
	}
	return nil
}

// UpdateInterest stores the result of an accrual, provided the row still
// carries the accrual marker it was read with. It reports whether the row was
// updated; false means a concurrent write got there first or the row is gone.
func (r *PropertyDebtRepository) UpdateInterest(ctx context.Context, debtID string, accumulated decimal.Decimal, lastUpdated, readLastUpdated time.Time) (bool, error) {
	query := `
        UPDATE property_debt SET accumulated_interest = ?, last_updated = ?
        WHERE id = ? AND ` + sameInstant("last_updated") + `
    `

	marker := FormatTime(readLastUpdated)
	result, err := r.getQuerier().ExecContext(ctx, query, accumulated, FormatTime(lastUpdated), debtID, marker, marker)
	if err != nil {
		return false, fmt.Errorf("failed to update property debt interest: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PropertyDebtRepository) query(ctx context.Context, query string, args ...any) (map[string][]model.PropertyDebt, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query property_debt table: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]model.PropertyDebt)
	for rows.Next() {
		var (
			d           model.PropertyDebt
			sourceID    string
			lastUpdated string
		)
		err := rows.Scan(
			&d.ID,
			&sourceID,
			&d.Name,
			&d.BaseAmount,
			&d.AccumulatedInterest,
			&d.InterestRatePercent,
			&d.Currency,
			&lastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property debt: %w", err)
		}
		if d.LastUpdated, err = ParseTime(lastUpdated); err != nil {
			return nil, err
		}
		grouped[sourceID] = append(grouped[sourceID], d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property_debt table: %w", err)
	}

	return grouped, nil
}
