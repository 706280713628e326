package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSourceNotFound indicates that a source with the given ID does not exist for the user.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSubRecordNotFound indicates that an account, loan or debt record does not exist for the user.
	ErrSubRecordNotFound = errors.New("sub-record not found")

	// ErrPropertyDebtNotFound indicates that an inline property debt does not exist on the source.
	ErrPropertyDebtNotFound = errors.New("property debt not found")

	// ErrExchangeRateNotFound indicates no stored rate for a currency.
	ErrExchangeRateNotFound = errors.New("exchange rate for currency not found")
)

// Business logic errors represent validation failures or expected conditions
// that prevent an operation from being applied.
var (
	// ErrAlreadyAccruedToday indicates that interest was already folded into the
	// record on the current calendar day. It is an expected, recoverable outcome.
	ErrAlreadyAccruedToday = errors.New("interest has already been updated today for this item")

	// ErrNotInterestBearing indicates that accrual was requested for a record
	// that carries no interest (a plain account).
	ErrNotInterestBearing = errors.New("record does not bear interest")

	// ErrInvalidRate indicates a zero or negative exchange rate where a division is required.
	ErrInvalidRate = errors.New("exchange rate must be positive")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrSourceKindMismatch indicates an operation that only applies to one kind of source.
	ErrSourceKindMismatch = errors.New("operation does not apply to this kind of source")
)

// ErrSnapshotNotRecorded is returned together with a successful mutation result
// when the source data was saved but the daily snapshot could not be committed.
var ErrSnapshotNotRecorded = errors.New("changes saved but net worth snapshot was not recorded")

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveSources   = errors.New("failed to retrieve sources")
	ErrFailedToRetrieveSource    = errors.New("failed to retrieve source")
	ErrFailedToSaveSource        = errors.New("failed to save source")
	ErrFailedToDeleteSource      = errors.New("failed to delete source")
	ErrFailedToGetOverview       = errors.New("failed to get net worth overview")
	ErrFailedToRetrieveSnapshots = errors.New("failed to retrieve snapshots")
	ErrFailedToAccrueInterest    = errors.New("failed to accrue interest")
	ErrFailedToRetrieveRates     = errors.New("failed to retrieve exchange rates")
	ErrFailedToUpdateRate        = errors.New("failed to update exchange rate")
)
