package shared

import (
	"context"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
)

// UnitOfWork scopes repository access to a transaction. Within commits on a
// nil return and rolls back on any error, on every exit path.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: non-locking single reads outside any explicit transaction
	Reads() Reads
}

type Tx interface {
	Resources() ResourceRepository
	Reservations() ReservationRepository
}

type ResourceRepository interface {
	// FindByIDForUpdate blocks competing acquirers of the same row until the
	// surrounding transaction ends. This lock is the engine's serialization
	// mechanism.
	FindByIDForUpdate(ctx context.Context, id resource.ID) (*resource.Resource, error)
	// UpdateWithOptimisticLock writes conditional on the stored version being
	// exactly one behind the entity's. Mismatch maps to KindConflict, a
	// missing row to KindNotFound.
	UpdateWithOptimisticLock(ctx context.Context, res *resource.Resource) error
	Save(ctx context.Context, res *resource.Resource) error
}

type ReservationRepository interface {
	Save(ctx context.Context, rsv *reservation.Reservation) error
	FindByIDForUpdate(ctx context.Context, id reservation.ID) (*reservation.Reservation, error)
	// SumActiveQuantityByResourceID is the authoritative aggregate over
	// CONFIRMED rows. Inside a transaction it reflects the transaction's own
	// uncommitted writes.
	SumActiveQuantityByResourceID(ctx context.Context, resourceID resource.ID) (int, error)
}

type Reads interface {
	ResourceByID(ctx context.Context, id resource.ID) (*resource.Resource, error)
	ReservationByID(ctx context.Context, id reservation.ID) (*reservation.Reservation, error)
}

type SettingsRepository interface {
	MaintenanceActive(ctx context.Context) (bool, error)
	SetMaintenance(ctx context.Context, active bool) error
}
