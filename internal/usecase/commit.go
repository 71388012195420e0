package usecase

import (
	"context"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"
)

// CacheInvalidator is the only cache surface the write paths touch. Services
// invalidate; they never read cache internals.
type CacheInvalidator interface {
	Invalidate(id resource.ID)
}

// CommitResult carries the outcome of an admission decision. A rejection is
// a legitimate business outcome, not an error: Confirmed is false and the
// reservation row records the reason.
type CommitResult struct {
	Confirmed       bool
	Reservation     *reservation.Reservation
	Event           event.Event
	ServerTimestamp time.Time
}

type CommitService interface {
	Commit(ctx context.Context, resourceID resource.ID, clientID reservation.ClientID, quantity reservation.Quantity) (*CommitResult, error)
}

type commitServiceImpl struct {
	uow      shared.UnitOfWork
	settings shared.SettingsRepository
	cache    CacheInvalidator
	clock    clock.Clock
}

func NewCommitService(
	uow shared.UnitOfWork,
	settings shared.SettingsRepository,
	cache CacheInvalidator,
	clk clock.Clock,
) CommitService {
	return &commitServiceImpl{
		uow:      uow,
		settings: settings,
		cache:    cache,
		clock:    clk,
	}
}

// Commit is the serialized admission path: lock, validate, decide, persist,
// invalidate. The row lock taken in step one of the transaction serializes
// all concurrent commits for the same resource; different resources proceed
// in parallel.
func (s *commitServiceImpl) Commit(
	ctx context.Context,
	resourceID resource.ID,
	clientID reservation.ClientID,
	quantity reservation.Quantity,
) (*CommitResult, error) {
	maintenance, err := s.settings.MaintenanceActive(ctx)
	if err != nil {
		return nil, markStoreErr(err)
	}
	if maintenance {
		return nil, ErrMaintenanceMode
	}

	// Recorded before the transaction opens; this is the authoritative
	// timestamp persisted regardless of how long lock acquisition takes.
	serverTimestamp := clock.NowMillis(s.clock)

	var result *CommitResult
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Resources().FindByIDForUpdate(ctx, resourceID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrResourceNotFound
			}
			return markStoreErr(err)
		}

		actual, err := tx.Reservations().SumActiveQuantityByResourceID(ctx, resourceID)
		if err != nil {
			return markStoreErr(err)
		}

		// Counter-drift guard: if a prior crash left the cached counter
		// below the aggregate, the aggregate still prevents overbooking.
		effective := res.CurrentBookings()
		if actual > effective {
			effective = actual
		}
		if res.CurrentBookings() != actual {
			slog.Warn("booking counter drift detected",
				"resource_id", resourceID.String(),
				"counter", res.CurrentBookings(),
				"aggregate", actual)
		}

		if !res.IsOpen() {
			return s.reject(ctx, tx, &result, resourceID, clientID, quantity, reservation.ReasonResourceClosed, serverTimestamp)
		}

		if quantity.Int() > res.Capacity()-effective {
			return s.reject(ctx, tx, &result, resourceID, clientID, quantity, reservation.ReasonResourceFull, serverTimestamp)
		}

		confirmed, err := reservation.NewConfirmed(resourceID, clientID, quantity, serverTimestamp)
		if err != nil {
			return err
		}
		if err := tx.Reservations().Save(ctx, confirmed); err != nil {
			return markStoreErr(err)
		}

		updated, err := res.ApplyBooking(quantity.Int(), effective, s.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Resources().UpdateWithOptimisticLock(ctx, updated); err != nil {
			// Cannot happen under the row lock unless another path wrote the
			// row outside it; the transaction rolls back and the caller may
			// retry.
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, ErrConcurrencyConflict)
			}
			return markStoreErr(err)
		}

		result = &CommitResult{
			Confirmed:   true,
			Reservation: confirmed,
			Event: event.Confirmed{
				ReservationID: confirmed.ID(),
				ResourceID:    resourceID,
				ClientID:      clientID,
				Quantity:      quantity.Int(),
				At:            serverTimestamp,
			},
			ServerTimestamp: serverTimestamp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Confirmed {
		s.cache.Invalidate(resourceID)
	}
	return result, nil
}

// reject persists the REJECTED row inside the same transaction as the lock,
// so a rejection record is only durable if the decision itself was.
func (s *commitServiceImpl) reject(
	ctx context.Context,
	tx shared.Tx,
	out **CommitResult,
	resourceID resource.ID,
	clientID reservation.ClientID,
	quantity reservation.Quantity,
	reason reservation.RejectionReason,
	serverTimestamp time.Time,
) error {
	rejected, err := reservation.NewRejected(resourceID, clientID, quantity, reason, serverTimestamp)
	if err != nil {
		return err
	}
	if err := tx.Reservations().Save(ctx, rejected); err != nil {
		return markStoreErr(err)
	}

	*out = &CommitResult{
		Confirmed:   false,
		Reservation: rejected,
		Event: event.Rejected{
			ReservationID: rejected.ID(),
			ResourceID:    resourceID,
			ClientID:      clientID,
			Quantity:      quantity.Int(),
			Reason:        reason,
			At:            serverTimestamp,
		},
		ServerTimestamp: serverTimestamp,
	}
	return nil
}
