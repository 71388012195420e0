package usecase

import (
	"context"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/usecase/readmodel"
	"reservation-engine/internal/usecase/shared"
)

// AvailabilityCache is the full read-side cache contract; write paths see
// only the CacheInvalidator slice of it.
type AvailabilityCache interface {
	Get(ctx context.Context, id resource.ID) (*readmodel.AvailabilityView, error)
	Invalidate(id resource.ID)
	InvalidateAll()
	Stats() readmodel.CacheStats
}

type AvailabilityQueries interface {
	Availability(ctx context.Context, resourceID resource.ID) (*readmodel.AvailabilityView, error)
	CacheStats() readmodel.CacheStats
	InvalidateCache(resourceID resource.ID)
	InvalidateAllCache()
}

type availabilityQueriesImpl struct {
	cache AvailabilityCache
}

func NewAvailabilityQueries(cache AvailabilityCache) AvailabilityQueries {
	return &availabilityQueriesImpl{cache: cache}
}

func (q *availabilityQueriesImpl) Availability(ctx context.Context, resourceID resource.ID) (*readmodel.AvailabilityView, error) {
	view, err := q.cache.Get(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, markStoreErr(err)
	}
	return view, nil
}

func (q *availabilityQueriesImpl) CacheStats() readmodel.CacheStats {
	return q.cache.Stats()
}

func (q *availabilityQueriesImpl) InvalidateCache(resourceID resource.ID) {
	q.cache.Invalidate(resourceID)
}

func (q *availabilityQueriesImpl) InvalidateAllCache() {
	q.cache.InvalidateAll()
}

type ReservationQueries interface {
	GetReservation(ctx context.Context, id reservation.ID) (*reservation.Reservation, error)
}

type reservationQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewReservationQueries(uow shared.UnitOfWork) ReservationQueries {
	return &reservationQueriesImpl{uow: uow}
}

func (q *reservationQueriesImpl) GetReservation(ctx context.Context, id reservation.ID) (*reservation.Reservation, error) {
	rsv, err := q.uow.Reads().ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, markStoreErr(err)
	}
	return rsv, nil
}
