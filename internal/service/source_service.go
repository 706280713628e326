package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/damiad/net-worth-tracker/internal/api/request"
	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/repository"
	"github.com/google/uuid"
)

// SourceService handles source-related business logic: reading sources with
// their records and applying user edits, each followed by a daily snapshot.
type SourceService struct {
	db         *sql.DB
	sourceRepo *repository.SourceRepository
	debtRepo   *repository.PropertyDebtRepository
	recordRepo *repository.SubRecordRepository
	snapshots  *SnapshotService
}

// NewSourceService creates a new SourceService.
func NewSourceService(
	db *sql.DB,
	sourceRepo *repository.SourceRepository,
	debtRepo *repository.PropertyDebtRepository,
	recordRepo *repository.SubRecordRepository,
	snapshots *SnapshotService,
) *SourceService {
	return &SourceService{
		db:         db,
		sourceRepo: sourceRepo,
		debtRepo:   debtRepo,
		recordRepo: recordRepo,
		snapshots:  snapshots,
	}
}

// ListSources returns every source of the user with its sub-records.
func (s *SourceService) ListSources(ctx context.Context, userID string) ([]model.SourceWithRecords, error) {
	sources, err := s.sourceRepo.ListSources(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.ListSubRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	bySource := model.GroupBySource(records)
	result := make([]model.SourceWithRecords, len(sources))
	for i, src := range sources {
		result[i] = model.SourceWithRecords{Source: src, Records: recordsOf(src, bySource[src.ID])}
	}
	return result, nil
}

// GetSource returns one source of the user with its sub-records.
// Returns ErrSourceNotFound if the source does not exist.
func (s *SourceService) GetSource(ctx context.Context, userID, sourceID string) (model.SourceWithRecords, error) {
	src, err := s.sourceRepo.GetSource(ctx, userID, sourceID)
	if err != nil {
		return model.SourceWithRecords{}, err
	}
	records, err := s.recordRepo.ListBySource(ctx, userID, sourceID)
	if err != nil {
		return model.SourceWithRecords{}, err
	}
	return model.SourceWithRecords{Source: src, Records: recordsOf(src, records)}, nil
}

// SaveSource creates a source (empty sourceID) or replaces an existing one.
//
// The source row, its property debts and its sub-records are written in one
// transaction. Records missing from the request are deleted. Accounts are
// stamped with the save time; loans and debts keep their accrual marker.
// Changing the kind drops the records of the former kind.
//
// If the data was saved but the snapshot could not be recorded, the saved
// source is returned together with an error wrapping ErrSnapshotNotRecorded.
func (s *SourceService) SaveSource(ctx context.Context, userID, sourceID string, req request.SaveSourceRequest) (model.SourceWithRecords, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.SourceWithRecords{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sources := s.sourceRepo.WithTx(tx)
	debts := s.debtRepo.WithTx(tx)
	records := s.recordRepo.WithTx(tx)

	var previous model.SourceWithRecords
	if sourceID == "" {
		sourceID = uuid.New().String()
	} else {
		if previous.Source, err = sources.GetSource(ctx, userID, sourceID); err != nil {
			return model.SourceWithRecords{}, err
		}
		if previous.Records, err = records.ListBySource(ctx, userID, sourceID); err != nil {
			return model.SourceWithRecords{}, err
		}
	}

	saved := model.SourceWithRecords{
		Source: model.Source{
			ID:          sourceID,
			UserID:      userID,
			Name:        strings.TrimSpace(req.Name),
			Kind:        model.SourceKind(req.Kind),
			LastUpdated: now,
		},
		Records: []model.SubRecord{},
	}

	if saved.Source.IsProperty() {
		saved.Source.Property = buildProperty(req.Property, previous.Source, now)
	}

	if err := sources.UpsertSource(ctx, saved.Source); err != nil {
		return model.SourceWithRecords{}, err
	}

	if saved.Source.IsProperty() {
		if err := debts.ReplaceForSource(ctx, sourceID, saved.Source.Property.OtherDebts); err != nil {
			return model.SourceWithRecords{}, err
		}
		if err := records.DeleteBySource(ctx, userID, sourceID); err != nil {
			return model.SourceWithRecords{}, err
		}
	} else {
		if err := debts.DeleteBySource(ctx, sourceID); err != nil {
			return model.SourceWithRecords{}, err
		}

		saved.Records = buildRecords(req.Records, userID, sourceID, previous.Records, now)
		keep := make([]string, len(saved.Records))
		for i, r := range saved.Records {
			keep[i] = r.Header().ID
		}
		if err := records.DeleteBySourceExcept(ctx, userID, sourceID, keep); err != nil {
			return model.SourceWithRecords{}, err
		}
		for _, r := range saved.Records {
			if err := records.UpsertSubRecord(ctx, r); err != nil {
				return model.SourceWithRecords{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return model.SourceWithRecords{}, fmt.Errorf("failed to commit source: %w", err)
	}

	return saved, s.recordSnapshot(ctx, userID, now)
}

// DeleteSource removes a source with all its records.
// Returns ErrSourceNotFound if the source does not exist; a failed snapshot
// after a successful delete is reported as ErrSnapshotNotRecorded.
func (s *SourceService) DeleteSource(ctx context.Context, userID, sourceID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recordRepo.WithTx(tx).DeleteBySource(ctx, userID, sourceID); err != nil {
		return err
	}
	if err := s.debtRepo.WithTx(tx).DeleteBySource(ctx, sourceID); err != nil {
		return err
	}
	if err := s.sourceRepo.WithTx(tx).DeleteSource(ctx, userID, sourceID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit source deletion: %w", err)
	}

	return s.recordSnapshot(ctx, userID, time.Now().UTC())
}

func (s *SourceService) recordSnapshot(ctx context.Context, userID string, now time.Time) error {
	if _, err := s.snapshots.Record(ctx, userID, now); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSnapshotNotRecorded, err)
	}
	return nil
}

func buildProperty(req *request.PropertyRequest, previous model.Source, now time.Time) *model.PropertyDetails {
	if req == nil {
		req = &request.PropertyRequest{}
	}

	previousDebts := map[string]model.PropertyDebt{}
	if previous.Property != nil {
		for _, d := range previous.Property.OtherDebts {
			previousDebts[d.ID] = d
		}
	}

	details := &model.PropertyDetails{
		AreaM2:           req.AreaM2,
		PricePerAreaUnit: req.PricePerAreaUnit,
		PriceCurrency:    req.PriceCurrency,
		BankDebtAmount:   req.BankDebtAmount,
		BankDebtCurrency: req.BankDebtCurrency,
		OtherDebts:       make([]model.PropertyDebt, 0, len(req.OtherDebts)),
	}

	for _, d := range req.OtherDebts {
		debt := model.PropertyDebt{
			ID:   d.ID,
			Name: strings.TrimSpace(d.Name),
			InterestBearing: model.InterestBearing{
				BaseAmount:          d.BaseAmount,
				AccumulatedInterest: d.AccumulatedInterest,
				InterestRatePercent: d.InterestRatePercent,
				Currency:            d.Currency,
			},
		}
		if debt.ID == "" {
			debt.ID = uuid.New().String()
		}
		if debt.Name == "" {
			debt.Name = model.DefaultDebtName
		}
		debt.LastUpdated = accrualMarker(d.LastUpdated, previousDebts[debt.ID].LastUpdated, now)

		details.OtherDebts = append(details.OtherDebts, debt)
	}

	return details
}

func buildRecords(reqs []request.SubRecordRequest, userID, sourceID string, previous []model.SubRecord, now time.Time) []model.SubRecord {
	previousByID := make(map[string]model.SubRecord, len(previous))
	for _, r := range previous {
		previousByID[r.Header().ID] = r
	}

	records := make([]model.SubRecord, 0, len(reqs))
	for _, r := range reqs {
		header := model.RecordHeader{ID: r.ID, UserID: userID, SourceID: sourceID}
		if header.ID == "" {
			header.ID = uuid.New().String()
		}

		ib := model.InterestBearing{
			BaseAmount:          r.BaseAmount,
			AccumulatedInterest: r.AccumulatedInterest,
			InterestRatePercent: r.InterestRatePercent,
			Currency:            r.Currency,
		}

		var previousMarker time.Time
		if prev, ok := previousByID[header.ID]; ok && prev.Kind() != model.SubRecordAccount {
			previousMarker = prev.Header().LastUpdated
		}

		switch model.SubRecordKind(r.Kind) {
		case model.SubRecordLoan:
			header.LastUpdated = accrualMarker(r.LastUpdated, previousMarker, now)
			records = append(records, &model.Loan{RecordHeader: header, InterestBearing: ib})
		case model.SubRecordDebt:
			header.LastUpdated = accrualMarker(r.LastUpdated, previousMarker, now)
			records = append(records, &model.Debt{RecordHeader: header, InterestBearing: ib})
		default:
			header.LastUpdated = now
			records = append(records, &model.Account{RecordHeader: header, Balance: r.Balance, Currency: r.Currency})
		}
	}

	return records
}

// accrualMarker picks the last-accrual time of an interest-bearing item:
// the submitted value, else the stored one, else now.
func accrualMarker(submitted *time.Time, stored, now time.Time) time.Time {
	switch {
	case submitted != nil && !submitted.IsZero():
		return submitted.UTC()
	case !stored.IsZero():
		return stored
	default:
		return now
	}
}

func recordsOf(src model.Source, records []model.SubRecord) []model.SubRecord {
	if src.IsProperty() || records == nil {
		return []model.SubRecord{}
	}
	return records
}
