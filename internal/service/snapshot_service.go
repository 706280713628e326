package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/valuation"
	"github.com/google/uuid"
)

// SnapshotStore persists snapshots. CommitSnapshot must apply its deletes and
// insert atomically.
type SnapshotStore interface {
	ListSnapshotsSince(ctx context.Context, userID string, since time.Time) ([]model.Snapshot, error)
	CommitSnapshot(ctx context.Context, userID string, deleteIDs []string, snap model.Snapshot) error
}

// OverviewProvider computes a user's current base-currency overview.
type OverviewProvider interface {
	BaseOverview(ctx context.Context, userID string) (model.Overview, error)
}

// SnapshotService records the daily net-worth snapshot of a user. Calls for the
// same user run one at a time so the last call of a day always wins.
type SnapshotService struct {
	store     SnapshotStore
	overviews OverviewProvider
	loc       *time.Location

	locks sync.Map // userID -> *sync.Mutex
}

// NewSnapshotService creates a new SnapshotService deciding calendar days in loc.
func NewSnapshotService(store SnapshotStore, overviews OverviewProvider, loc *time.Location) *SnapshotService {
	return &SnapshotService{
		store:     store,
		overviews: overviews,
		loc:       loc,
	}
}

// Record replaces today's snapshot of the user, if any, with one built from
// the current overview.
func (s *SnapshotService) Record(ctx context.Context, userID string, now time.Time) (model.Snapshot, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	overview, err := s.overviews.BaseOverview(ctx, userID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to compute overview for snapshot: %w", err)
	}

	existing, err := s.store.ListSnapshotsSince(ctx, userID, valuation.StartOfDay(now, s.loc))
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load today's snapshots: %w", err)
	}

	next := valuation.NewSnapshot(userID, overview, now)
	next.ID = uuid.New().String()
	plan := valuation.PlanSnapshot(existing, next, s.loc)

	if err := s.store.CommitSnapshot(ctx, userID, plan.DeleteIDs, plan.Snapshot); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return plan.Snapshot, nil
}

func (s *SnapshotService) userLock(userID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
