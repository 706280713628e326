package service

import (
	"context"
	"log"

	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/repository"
	"github.com/damiad/net-worth-tracker/internal/valuation"
	"golang.org/x/sync/errgroup"
)

// NetWorthService builds the read side: the current overview and the
// snapshot history of a user.
type NetWorthService struct {
	sourceRepo   *repository.SourceRepository
	recordRepo   *repository.SubRecordRepository
	snapshotRepo *repository.SnapshotRepository
	rateService  *RateService
}

// NewNetWorthService creates a new NetWorthService.
func NewNetWorthService(
	sourceRepo *repository.SourceRepository,
	recordRepo *repository.SubRecordRepository,
	snapshotRepo *repository.SnapshotRepository,
	rateService *RateService,
) *NetWorthService {
	return &NetWorthService{
		sourceRepo:   sourceRepo,
		recordRepo:   recordRepo,
		snapshotRepo: snapshotRepo,
		rateService:  rateService,
	}
}

// Overview values every source of the user and returns the totals and
// allocation expressed in currency. An empty or unknown currency means the
// base currency.
func (s *NetWorthService) Overview(ctx context.Context, userID, currency string) (model.Overview, error) {
	overview, rates, err := s.load(ctx, userID)
	if err != nil {
		return model.Overview{}, err
	}
	return valuation.ConvertOverview(overview, currency, rates)
}

// BaseOverview returns the overview in the base currency. The snapshot
// policy records this form.
func (s *NetWorthService) BaseOverview(ctx context.Context, userID string) (model.Overview, error) {
	overview, _, err := s.load(ctx, userID)
	return overview, err
}

// History returns the user's snapshots, oldest first, expressed in currency.
func (s *NetWorthService) History(ctx context.Context, userID, currency string) (model.SnapshotHistory, error) {
	var (
		snapshots []model.Snapshot
		rates     model.RateTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshots, err = s.snapshotRepo.ListSnapshots(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = s.rateService.RateTable(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SnapshotHistory{}, err
	}

	return valuation.ConvertSnapshots(snapshots, currency, rates)
}

func (s *NetWorthService) load(ctx context.Context, userID string) (model.Overview, model.RateTable, error) {
	var (
		sources []model.Source
		records []model.SubRecord
		rates   model.RateTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sources, err = s.sourceRepo.ListSources(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.ListSubRecords(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = s.rateService.RateTable(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Overview{}, nil, err
	}

	overview := valuation.BuildOverview(sources, records, rates)
	for _, v := range overview.Sources {
		if v.Degraded() {
			log.Printf("valuation: source %s uses currencies without a rate: %v", v.Source.ID, v.UnknownCurrencies)
		}
	}

	return overview, rates, nil
}
