package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// SubRecordRepository provides data access methods for the sub_record table,
// which stores accounts, loans and debts of bank-like sources in one table
// discriminated by kind.
type SubRecordRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSubRecordRepository creates a new SubRecordRepository with the provided database connection.
func NewSubRecordRepository(db *sql.DB) *SubRecordRepository {
	return &SubRecordRepository{db: db}
}

// WithTx returns a new SubRecordRepository scoped to the provided transaction.
func (r *SubRecordRepository) WithTx(tx *sql.Tx) *SubRecordRepository {
	return &SubRecordRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *SubRecordRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const subRecordColumns = `
	id, user_id, source_id, kind, balance, base_amount,
	accumulated_interest, interest_rate_percent, currency, last_updated
`

// ListSubRecords retrieves every sub-record of a user.
func (r *SubRecordRepository) ListSubRecords(ctx context.Context, userID string) ([]model.SubRecord, error) {
	query := `SELECT ` + subRecordColumns + ` FROM sub_record WHERE user_id = ? ORDER BY rowid`
	return r.list(ctx, query, userID)
}

// ListBySource retrieves the sub-records of one source of a user.
func (r *SubRecordRepository) ListBySource(ctx context.Context, userID, sourceID string) ([]model.SubRecord, error) {
	query := `SELECT ` + subRecordColumns + ` FROM sub_record WHERE user_id = ? AND source_id = ? ORDER BY rowid`
	return r.list(ctx, query, userID, sourceID)
}

// GetSubRecord retrieves a single sub-record of a user.
// Returns ErrSubRecordNotFound if it does not exist.
func (r *SubRecordRepository) GetSubRecord(ctx context.Context, userID, recordID string) (model.SubRecord, error) {
	query := `SELECT ` + subRecordColumns + ` FROM sub_record WHERE id = ? AND user_id = ?`

	rec, err := scanSubRecord(r.getQuerier().QueryRowContext(ctx, query, recordID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrSubRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpsertSubRecord inserts the record or replaces its stored columns.
// Returns ErrSubRecordNotFound if the id is taken by a record of another
// user or of another source.
func (r *SubRecordRepository) UpsertSubRecord(ctx context.Context, rec model.SubRecord) error {
	query := `
        INSERT INTO sub_record (` + subRecordColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            source_id = excluded.source_id,
            kind = excluded.kind,
            balance = excluded.balance,
            base_amount = excluded.base_amount,
            accumulated_interest = excluded.accumulated_interest,
            interest_rate_percent = excluded.interest_rate_percent,
            currency = excluded.currency,
            last_updated = excluded.last_updated
        WHERE sub_record.user_id = excluded.user_id
          AND sub_record.source_id = excluded.source_id
    `

	var (
		balance  decimal.Decimal
		ib       model.InterestBearing
		currency string
	)
	switch v := rec.(type) {
	case *model.Account:
		balance, currency = v.Balance, v.Currency
	case *model.Loan:
		ib, currency = v.InterestBearing, v.Currency
	case *model.Debt:
		ib, currency = v.InterestBearing, v.Currency
	default:
		return fmt.Errorf("unsupported sub-record type %T", rec)
	}

	h := rec.Header()
	result, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.UserID,
		h.SourceID,
		string(rec.Kind()),
		balance,
		ib.BaseAmount,
		ib.AccumulatedInterest,
		ib.InterestRatePercent,
		currency,
		FormatTime(h.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sub-record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrSubRecordNotFound
	}

	return nil
}

// DeleteBySourceExcept removes the user's records of a source whose id is not in keepIDs.
func (r *SubRecordRepository) DeleteBySourceExcept(ctx context.Context, userID, sourceID string, keepIDs []string) error {
	query := `DELETE FROM sub_record WHERE user_id = ? AND source_id = ?`
	args := []any{userID, sourceID}
	if len(keepIDs) > 0 {
		query += ` AND id NOT IN (` + placeholders(len(keepIDs)) + `)`
		args = append(args, stringArgs(keepIDs)...)
	}

	if _, err := r.getQuerier().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete stale sub-records: %w", err)
	}
	return nil
}

// DeleteBySource removes every record of a source.
func (r *SubRecordRepository) DeleteBySource(ctx context.Context, userID, sourceID string) error {
	return r.DeleteBySourceExcept(ctx, userID, sourceID, nil)
}

// UpdateInterest stores the result of an accrual, provided the row still
// carries the accrual marker it was read with. It reports whether the row was
// updated; false means a concurrent write got there first or the row is gone.
func (r *SubRecordRepository) UpdateInterest(ctx context.Context, recordID string, accumulated decimal.Decimal, lastUpdated, readLastUpdated time.Time) (bool, error) {
	query := `
        UPDATE sub_record SET accumulated_interest = ?, last_updated = ?
        WHERE id = ? AND ` + sameInstant("last_updated") + ` AND kind IN ('loan', 'debt')
    `

	marker := FormatTime(readLastUpdated)
	result, err := r.getQuerier().ExecContext(ctx, query, accumulated, FormatTime(lastUpdated), recordID, marker, marker)
	if err != nil {
		return false, fmt.Errorf("failed to update sub-record interest: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *SubRecordRepository) list(ctx context.Context, query string, args ...any) ([]model.SubRecord, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub_record table: %w", err)
	}
	defer rows.Close()

	records := []model.SubRecord{}
	for rows.Next() {
		rec, err := scanSubRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sub_record table: %w", err)
	}

	return records, nil
}

func scanSubRecord(row rowScanner) (model.SubRecord, error) {
	var (
		h           model.RecordHeader
		kind        string
		balance     decimal.Decimal
		ib          model.InterestBearing
		lastUpdated string
	)

	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.SourceID,
		&kind,
		&balance,
		&ib.BaseAmount,
		&ib.AccumulatedInterest,
		&ib.InterestRatePercent,
		&ib.Currency,
		&lastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sub-record: %w", err)
	}

	if h.LastUpdated, err = ParseTime(lastUpdated); err != nil {
		return nil, err
	}

	switch model.SubRecordKind(kind) {
	case model.SubRecordAccount:
		return &model.Account{RecordHeader: h, Balance: balance, Currency: ib.Currency}, nil
	case model.SubRecordLoan:
		return &model.Loan{RecordHeader: h, InterestBearing: ib}, nil
	case model.SubRecordDebt:
		return &model.Debt{RecordHeader: h, InterestBearing: ib}, nil
	default:
		return nil, fmt.Errorf("unknown sub-record kind %q", kind)
	}
}
