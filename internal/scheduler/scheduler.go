// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/damiad/net-worth-tracker/internal/service"
	"github.com/robfig/cron/v3"
)

// Accruer folds due interest into every interest-bearing item.
type Accruer interface {
	AccrueAll(ctx context.Context, now time.Time) (service.AccrualRun, error)
}

// Scheduler triggers interest accrual on a cron schedule evaluated in the
// reference timezone. A run still in progress when the next one is due
// makes the next one skip.
type Scheduler struct {
	cron    *cron.Cron
	accruer Accruer
	timeout time.Duration
}

// New registers the accrual job under spec, a standard five-field cron expression.
func New(spec string, accruer Accruer, loc *time.Location) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		accruer: accruer,
		timeout: 10 * time.Minute,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunAccrual(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid accrual schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		log.Printf("Interest accrual scheduled, next run at %s", e.Next.Format(time.RFC3339))
	}
}

// Stop prevents new runs and waits for a running one to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunAccrual performs one accrual pass and logs its outcome.
func (s *Scheduler) RunAccrual(ctx context.Context) service.AccrualRun {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	run, err := s.accruer.AccrueAll(ctx, start)
	if err != nil {
		log.Printf("Interest accrual finished with errors: %v", err)
	}
	log.Printf("Interest accrual: %d users, %d accrued, %d skipped in %s",
		run.Users, run.Accrued, run.Skipped, time.Since(start))

	return run
}
