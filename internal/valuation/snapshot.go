package valuation

import (
	"time"

	"github.com/damiad/net-worth-tracker/internal/model"
)

// NewSnapshot captures the overview totals as a snapshot taken at now.
// The ID is left for the caller to assign.
func NewSnapshot(userID string, overview model.Overview, now time.Time) model.Snapshot {
	allocation := make([]model.AllocationEntry, len(overview.AssetAllocation))
	copy(allocation, overview.AssetAllocation)

	return model.Snapshot{
		UserID:          userID,
		NetWorth:        overview.NetWorth,
		LiquidAssets:    overview.LiquidAssets,
		AssetAllocation: allocation,
		Timestamp:       now,
	}
}

// PlanSnapshot decides how next is persisted so that only one snapshot remains
// for its calendar day in loc: every existing snapshot timestamped at or after
// the start of that day is scheduled for deletion, then next is inserted.
func PlanSnapshot(existing []model.Snapshot, next model.Snapshot, loc *time.Location) model.SnapshotPlan {
	startOfToday := StartOfDay(next.Timestamp, loc)

	var deleteIDs []string
	for _, s := range existing {
		if !s.Timestamp.Before(startOfToday) {
			deleteIDs = append(deleteIDs, s.ID)
		}
	}

	return model.SnapshotPlan{
		DeleteIDs: deleteIDs,
		Snapshot:  next,
	}
}
