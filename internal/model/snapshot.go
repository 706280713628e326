package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is an immutable point-in-time record of a user's net worth.
// At most one snapshot exists per calendar day per user.
type Snapshot struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	NetWorth        decimal.Decimal   `json:"netWorth"`
	LiquidAssets    decimal.Decimal   `json:"liquidAssets"`
	AssetAllocation []AllocationEntry `json:"assetAllocation"`
	Timestamp       time.Time         `json:"timestamp"`
}

// SnapshotPlan is the write intent produced by the snapshot policy: the
// snapshots to delete and the one to insert, to be applied atomically.
type SnapshotPlan struct {
	DeleteIDs []string
	Snapshot  Snapshot
}

// SnapshotHistory is a user's snapshots, oldest first, with amounts expressed in Currency.
type SnapshotHistory struct {
	Currency  string
	Snapshots []Snapshot
}
