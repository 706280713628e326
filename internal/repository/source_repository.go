package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
)

// SourceRepository provides data access methods for the source table.
// Property sources are returned with their inline debts loaded.
type SourceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSourceRepository creates a new SourceRepository with the provided database connection.
func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// WithTx returns a new SourceRepository scoped to the provided transaction.
func (r *SourceRepository) WithTx(tx *sql.Tx) *SourceRepository {
	return &SourceRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *SourceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const sourceColumns = `
	id, user_id, name, kind, last_updated,
	area_m2, price_per_area_unit, price_currency, bank_debt_amount, bank_debt_currency
`

// ListSources retrieves every source of a user in insertion order.
// Returns an empty slice if the user has no sources.
func (r *SourceRepository) ListSources(ctx context.Context, userID string) ([]model.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM source WHERE user_id = ? ORDER BY rowid`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query source table: %w", err)
	}
	defer rows.Close()

	sources := []model.Source{}
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source table: %w", err)
	}

	debts, err := r.debts().listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range sources {
		if sources[i].Property != nil {
			sources[i].Property.OtherDebts = nonNil(debts[sources[i].ID])
		}
	}

	return sources, nil
}

// GetSource retrieves one source of a user.
// Returns ErrSourceNotFound if it does not exist or belongs to another user.
func (r *SourceRepository) GetSource(ctx context.Context, userID, sourceID string) (model.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM source WHERE id = ? AND user_id = ?`

	src, err := scanSource(r.getQuerier().QueryRowContext(ctx, query, sourceID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Source{}, apperrors.ErrSourceNotFound
	}
	if err != nil {
		return model.Source{}, err
	}

	if src.Property != nil {
		debts, err := r.debts().ListBySource(ctx, sourceID)
		if err != nil {
			return model.Source{}, err
		}
		src.Property.OtherDebts = debts
	}

	return src, nil
}

// UpsertSource inserts the source or replaces its stored columns.
// Property debts are stored separately by PropertyDebtRepository.
func (r *SourceRepository) UpsertSource(ctx context.Context, src model.Source) error {
	query := `
        INSERT INTO source (` + sourceColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            kind = excluded.kind,
            last_updated = excluded.last_updated,
            area_m2 = excluded.area_m2,
            price_per_area_unit = excluded.price_per_area_unit,
            price_currency = excluded.price_currency,
            bank_debt_amount = excluded.bank_debt_amount,
            bank_debt_currency = excluded.bank_debt_currency
        WHERE source.user_id = excluded.user_id
    `

	p := src.Property
	if p == nil {
		p = &model.PropertyDetails{}
	}

	result, err := r.getQuerier().ExecContext(ctx, query,
		src.ID,
		src.UserID,
		src.Name,
		string(src.Kind),
		FormatTime(src.LastUpdated),
		p.AreaM2,
		p.PricePerAreaUnit,
		p.PriceCurrency,
		p.BankDebtAmount,
		p.BankDebtCurrency,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	// The id exists but belongs to another user.
	if rowsAffected == 0 {
		return apperrors.ErrSourceNotFound
	}

	return nil
}

// DeleteSource removes a source of a user. Sub-records and property debts are
// removed by the foreign key cascade.
// Returns ErrSourceNotFound if no such source exists.
func (r *SourceRepository) DeleteSource(ctx context.Context, userID, sourceID string) error {
	query := `DELETE FROM source WHERE id = ? AND user_id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, sourceID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrSourceNotFound
	}

	return nil
}

// ListUserIDs returns every user that owns at least one source.
func (r *SourceRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT DISTINCT user_id FROM source ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query source owners: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan source owner: %w", err)
		}
		users = append(users, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source owners: %w", err)
	}

	return users, nil
}

func (r *SourceRepository) debts() *PropertyDebtRepository {
	return &PropertyDebtRepository{db: r.db, tx: r.tx}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (model.Source, error) {
	var (
		src         model.Source
		kind        string
		lastUpdated string
		p           model.PropertyDetails
	)

	err := row.Scan(
		&src.ID,
		&src.UserID,
		&src.Name,
		&kind,
		&lastUpdated,
		&p.AreaM2,
		&p.PricePerAreaUnit,
		&p.PriceCurrency,
		&p.BankDebtAmount,
		&p.BankDebtCurrency,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Source{}, err
	}
	if err != nil {
		return model.Source{}, fmt.Errorf("failed to scan source: %w", err)
	}

	src.Kind = model.SourceKind(kind)
	if src.LastUpdated, err = ParseTime(lastUpdated); err != nil {
		return model.Source{}, err
	}
	if src.IsProperty() {
		p.OtherDebts = []model.PropertyDebt{}
		src.Property = &p
	}

	return src, nil
}

func nonNil(debts []model.PropertyDebt) []model.PropertyDebt {
	if debts == nil {
		return []model.PropertyDebt{}
	}
	return debts
}

