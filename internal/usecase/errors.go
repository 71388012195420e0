package usecase

import (
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"
)

var (
	ErrResourceNotFound    = errs.New("resource not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrInvalidState        = errs.New("reservation is not in a cancellable state")
	ErrConcurrencyConflict = errs.New("concurrent modification detected")
	ErrMaintenanceMode     = errs.New("system is in maintenance mode")
	ErrStoreTimeout        = errs.New("store operation timed out")
	ErrDataIntegrity       = errs.New("referential integrity violated")

	// Error marker for unclassified store faults
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// markStoreErr classifies repository faults that are not handled explicitly
// at the call site: timeouts stay retryable, everything else is opaque.
func markStoreErr(err error) error {
	if infra.IsKind(err, infra.KindTimeout) {
		return errs.Mark(err, ErrStoreTimeout)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
