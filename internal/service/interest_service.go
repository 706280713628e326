package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/model"
	"github.com/damiad/net-worth-tracker/internal/repository"
	"github.com/damiad/net-worth-tracker/internal/valuation"
)

// InterestService folds elapsed interest into loans, debts and property debts.
type InterestService struct {
	sourceRepo *repository.SourceRepository
	debtRepo   *repository.PropertyDebtRepository
	recordRepo *repository.SubRecordRepository
	snapshots  *SnapshotService
	loc        *time.Location
}

// NewInterestService creates a new InterestService deciding calendar days in loc.
func NewInterestService(
	sourceRepo *repository.SourceRepository,
	debtRepo *repository.PropertyDebtRepository,
	recordRepo *repository.SubRecordRepository,
	snapshots *SnapshotService,
	loc *time.Location,
) *InterestService {
	return &InterestService{
		sourceRepo: sourceRepo,
		debtRepo:   debtRepo,
		recordRepo: recordRepo,
		snapshots:  snapshots,
		loc:        loc,
	}
}

// AccrualRun summarizes one AccrueAll pass.
type AccrualRun struct {
	Users   int
	Accrued int
	Skipped int
}

// AccrueSubRecord accrues interest on a loan or debt of the user.
//
// It returns the record as stored afterwards and whether interest was added.
// ErrAlreadyAccruedToday is returned, with the unchanged record, when the
// record was accrued earlier on the same day; ErrNotInterestBearing for
// accounts. A zero-rate record is left untouched and reports false.
func (s *InterestService) AccrueSubRecord(ctx context.Context, userID, recordID string, now time.Time) (model.SubRecord, bool, error) {
	rec, err := s.recordRepo.GetSubRecord(ctx, userID, recordID)
	if err != nil {
		return nil, false, err
	}

	applied, err := s.accrueRecord(ctx, rec, now)
	if err != nil || !applied {
		return rec, false, err
	}

	return rec, true, s.recordSnapshot(ctx, userID, now)
}

// AccruePropertyDebt accrues interest on an inline debt of a property source.
// Outcomes mirror AccrueSubRecord.
func (s *InterestService) AccruePropertyDebt(ctx context.Context, userID, sourceID, debtID string, now time.Time) (model.PropertyDebt, bool, error) {
	src, err := s.sourceRepo.GetSource(ctx, userID, sourceID)
	if err != nil {
		return model.PropertyDebt{}, false, err
	}
	if !src.IsProperty() {
		return model.PropertyDebt{}, false, apperrors.ErrSourceKindMismatch
	}

	debt, err := s.debtRepo.GetPropertyDebt(ctx, userID, sourceID, debtID)
	if err != nil {
		return model.PropertyDebt{}, false, err
	}

	applied, err := s.accrueDebt(ctx, &debt, now)
	if err != nil || !applied {
		return debt, false, err
	}

	return debt, true, s.recordSnapshot(ctx, userID, now)
}

// AccrueAll accrues every interest-bearing item of every user. Items already
// accrued today or carrying no interest are skipped. Each user with at least
// one accrual gets one snapshot. Failures are collected and the run goes on.
func (s *InterestService) AccrueAll(ctx context.Context, now time.Time) (AccrualRun, error) {
	var run AccrualRun
	var errs []error

	users, err := s.sourceRepo.ListUserIDs(ctx)
	if err != nil {
		return run, err
	}

	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		run.Users++

		accrued, skipped, err := s.accrueUser(ctx, userID, now)
		run.Accrued += accrued
		run.Skipped += skipped
		if err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
		}

		if accrued > 0 {
			if err := s.recordSnapshot(ctx, userID, now); err != nil {
				errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			}
		}
	}

	return run, errors.Join(errs...)
}

func (s *InterestService) accrueUser(ctx context.Context, userID string, now time.Time) (accrued, skipped int, err error) {
	count := func(applied bool, err error) error {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyAccruedToday):
			skipped++
			return nil
		case err != nil:
			return err
		case applied:
			accrued++
		default:
			skipped++
		}
		return nil
	}

	records, err := s.recordRepo.ListSubRecords(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	for _, rec := range records {
		if rec.Kind() == model.SubRecordAccount {
			continue
		}
		if err := count(s.accrueRecord(ctx, rec, now)); err != nil {
			return accrued, skipped, err
		}
	}

	sources, err := s.sourceRepo.ListSources(ctx, userID)
	if err != nil {
		return accrued, skipped, err
	}
	for _, src := range sources {
		if src.Property == nil {
			continue
		}
		for i := range src.Property.OtherDebts {
			if err := count(s.accrueDebt(ctx, &src.Property.OtherDebts[i], now)); err != nil {
				return accrued, skipped, err
			}
		}
	}

	return accrued, skipped, nil
}

// accrueRecord updates rec in place and in the database.
func (s *InterestService) accrueRecord(ctx context.Context, rec model.SubRecord, now time.Time) (bool, error) {
	var ib *model.InterestBearing
	switch v := rec.(type) {
	case *model.Loan:
		ib = &v.InterestBearing
	case *model.Debt:
		ib = &v.InterestBearing
	default:
		return false, apperrors.ErrNotInterestBearing
	}

	header := rec.Header()
	acc, err := valuation.Accrue(*ib, header.LastUpdated, now, s.loc)
	if err != nil || !acc.Applied {
		return false, err
	}

	updated, err := s.recordRepo.UpdateInterest(ctx, header.ID, acc.AccumulatedInterest, acc.LastAccrued, header.LastUpdated)
	if err != nil {
		return false, err
	}
	if !updated {
		return false, apperrors.ErrAlreadyAccruedToday
	}

	ib.AccumulatedInterest = acc.AccumulatedInterest
	header.LastUpdated = acc.LastAccrued
	return true, nil
}

// accrueDebt updates debt in place and in the database.
func (s *InterestService) accrueDebt(ctx context.Context, debt *model.PropertyDebt, now time.Time) (bool, error) {
	acc, err := valuation.Accrue(debt.InterestBearing, debt.LastUpdated, now, s.loc)
	if err != nil || !acc.Applied {
		return false, err
	}

	updated, err := s.debtRepo.UpdateInterest(ctx, debt.ID, acc.AccumulatedInterest, acc.LastAccrued, debt.LastUpdated)
	if err != nil {
		return false, err
	}
	if !updated {
		return false, apperrors.ErrAlreadyAccruedToday
	}

	debt.AccumulatedInterest = acc.AccumulatedInterest
	debt.LastUpdated = acc.LastAccrued
	return true, nil
}

func (s *InterestService) recordSnapshot(ctx context.Context, userID string, now time.Time) error {
	if _, err := s.snapshots.Record(ctx, userID, now); err != nil {
		log.Printf("Failed to record snapshot for user %s after accrual: %v", userID, err)
		return fmt.Errorf("%w: %v", apperrors.ErrSnapshotNotRecorded, err)
	}
	return nil
}
