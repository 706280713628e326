package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/damiad/net-worth-tracker/internal/repository"
	"github.com/damiad/net-worth-tracker/internal/service"
	"github.com/google/uuid"
)

// Services bundles every service wired against one test database, sharing a
// single SnapshotService the way the server does.
type Services struct {
	Rates     *service.RateService
	NetWorth  *service.NetWorthService
	Snapshots *service.SnapshotService
	Sources   *service.SourceService
	Interest  *service.InterestService
	System    *service.SystemService
}

// NewTestServices wires all services against db, deciding calendar days in loc.
//
// Example usage:
//
//	db := testutil.SetupTestDB(t)
//	svc := testutil.NewTestServices(t, db, time.UTC)
//	overview, err := svc.NetWorth.Overview(ctx, userID, "")
func NewTestServices(t *testing.T, db *sql.DB, loc *time.Location) *Services {
	t.Helper()

	sourceRepo := repository.NewSourceRepository(db)
	debtRepo := repository.NewPropertyDebtRepository(db)
	recordRepo := repository.NewSubRecordRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	rateRepo := repository.NewExchangeRateRepository(db)

	rates := service.NewRateService(rateRepo)
	netWorth := service.NewNetWorthService(sourceRepo, recordRepo, snapshotRepo, rates)
	snapshots := service.NewSnapshotService(snapshotRepo, netWorth, loc)

	return &Services{
		Rates:     rates,
		NetWorth:  netWorth,
		Snapshots: snapshots,
		Sources:   service.NewSourceService(db, sourceRepo, debtRepo, recordRepo, snapshots),
		Interest:  service.NewInterestService(sourceRepo, debtRepo, recordRepo, snapshots, loc),
		System:    service.NewSystemService(db, map[string]bool{"scheduled_accrual": false}),
	}
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeName generates a unique display name for testing.
//
// Example usage:
//
//	name := testutil.MakeName("Savings")
//	// Returns: "Savings ABC123"
func MakeName(base string) string {
	if base == "" {
		base = "Source"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// MustParseTime parses an RFC3339 timestamp or fails the test.
func MustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Failed to parse time %q: %v", value, err)
	}
	return parsed
}
