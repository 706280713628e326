package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/damiad/net-worth-tracker/internal/model"
)

// SnapshotRepository provides data access methods for the snapshot table.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a new SnapshotRepository scoped to the provided transaction.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ListSnapshots retrieves every snapshot of a user, oldest first.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, userID string) ([]model.Snapshot, error) {
	query := `
        SELECT id, user_id, net_worth, liquid_assets, asset_allocation, timestamp
        FROM snapshot
        WHERE user_id = ?
        ORDER BY timestamp ASC
    `
	return r.list(ctx, query, userID)
}

// ListSnapshotsSince retrieves the snapshots of a user taken at or after since, oldest first.
func (r *SnapshotRepository) ListSnapshotsSince(ctx context.Context, userID string, since time.Time) ([]model.Snapshot, error) {
	query := `
        SELECT id, user_id, net_worth, liquid_assets, asset_allocation, timestamp
        FROM snapshot
        WHERE user_id = ? AND timestamp >= ?
        ORDER BY timestamp ASC
    `
	return r.list(ctx, query, userID, FormatTime(since))
}

// CommitSnapshot deletes the snapshots listed in deleteIDs and inserts snap
// in a single transaction. Either both happen or neither does.
func (r *SnapshotRepository) CommitSnapshot(ctx context.Context, userID string, deleteIDs []string, snap model.Snapshot) error {
	if r.tx != nil {
		return r.commit(ctx, r.tx, userID, deleteIDs, snap)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.commit(ctx, tx, userID, deleteIDs, snap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) commit(ctx context.Context, tx *sql.Tx, userID string, deleteIDs []string, snap model.Snapshot) error {
	if len(deleteIDs) > 0 {
		query := `DELETE FROM snapshot WHERE user_id = ? AND id IN (` + placeholders(len(deleteIDs)) + `)`
		args := append([]any{userID}, stringArgs(deleteIDs)...)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete superseded snapshots: %w", err)
		}
	}

	allocation, err := json.Marshal(snap.AssetAllocation)
	if err != nil {
		return fmt.Errorf("failed to encode asset allocation: %w", err)
	}

	query := `
        INSERT INTO snapshot (id, user_id, net_worth, liquid_assets, asset_allocation, timestamp)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err = tx.ExecContext(ctx, query,
		snap.ID,
		userID,
		snap.NetWorth,
		snap.LiquidAssets,
		string(allocation),
		FormatTime(snap.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) list(ctx context.Context, query string, args ...any) ([]model.Snapshot, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.Snapshot{}
	for rows.Next() {
		var (
			s          model.Snapshot
			allocation string
			timestamp  string
		)
		err := rows.Scan(&s.ID, &s.UserID, &s.NetWorth, &s.LiquidAssets, &allocation, &timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(allocation), &s.AssetAllocation); err != nil {
			return nil, fmt.Errorf("failed to decode asset allocation of snapshot %s: %w", s.ID, err)
		}
		if s.Timestamp, err = ParseTime(timestamp); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot table: %w", err)
	}

	return snapshots, nil
}
