package usecase

import (
	"context"
	"errors"
	"time"

	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"
)

type CancelResult struct {
	Reservation      *reservation.Reservation
	Event            event.Event
	ServerTimestamp  time.Time
	CapacityReleased int
}

type CancelService interface {
	Cancel(ctx context.Context, reservationID reservation.ID) (*CancelResult, error)
}

type cancelServiceImpl struct {
	uow   shared.UnitOfWork
	cache CacheInvalidator
	clock clock.Clock
}

func NewCancelService(uow shared.UnitOfWork, cache CacheInvalidator, clk clock.Clock) CancelService {
	return &cancelServiceImpl{
		uow:   uow,
		cache: cache,
		clock: clk,
	}
}

// Cancel releases capacity symmetrically to Commit: lock the reservation,
// then the resource, mark cancelled, decrement the counter. Double-cancel is
// an error, not an idempotent no-op.
func (s *cancelServiceImpl) Cancel(ctx context.Context, reservationID reservation.ID) (*CancelResult, error) {
	serverTimestamp := clock.NowMillis(s.clock)

	var result *CancelResult
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rsv, err := tx.Reservations().FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return markStoreErr(err)
		}

		cancelled, err := rsv.Cancel()
		if err != nil {
			if errors.Is(err, reservation.ErrNotConfirmed) {
				return errs.Mark(err, ErrInvalidState)
			}
			return err
		}

		// A reservation without its resource means the FK was bypassed;
		// nothing sensible can be released.
		res, err := tx.Resources().FindByIDForUpdate(ctx, rsv.ResourceID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrDataIntegrity)
			}
			return markStoreErr(err)
		}

		if err := tx.Reservations().Save(ctx, cancelled); err != nil {
			return markStoreErr(err)
		}

		updated := res.ReleaseBooking(rsv.Quantity().Int(), s.clock.Now())
		if err := tx.Resources().UpdateWithOptimisticLock(ctx, updated); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, ErrConcurrencyConflict)
			}
			return markStoreErr(err)
		}

		result = &CancelResult{
			Reservation: cancelled,
			Event: event.Cancelled{
				ReservationID:    cancelled.ID(),
				ResourceID:       cancelled.ResourceID(),
				CapacityReleased: cancelled.Quantity().Int(),
				At:               serverTimestamp,
			},
			ServerTimestamp:  serverTimestamp,
			CapacityReleased: cancelled.Quantity().Int(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(result.Reservation.ResourceID())
	return result, nil
}
