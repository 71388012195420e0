package uow

import (
	"context"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra/db"
	"reservation-engine/internal/infra/repository"
	"reservation-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxTxRetries = 3

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted is sufficient: the FOR UPDATE row lock, not the isolation
// level, serializes the admission path.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	_, err := db.RunInTxWithRetry(ctx, u.pool, maxTxRetries, func(pgxTx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(ctx, &pgTx{dbtx: pgxTx})
	})
	return err
}

func (u *PostgresUoW) Reads() shared.Reads {
	return &reads{dbtx: u.pool}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	resourceRepo    shared.ResourceRepository
	reservationRepo shared.ReservationRepository
}

func (t *pgTx) Resources() shared.ResourceRepository {
	if t.resourceRepo == nil {
		t.resourceRepo = repository.NewResourceRepository(t.dbtx)
	}
	return t.resourceRepo
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.dbtx)
	}
	return t.reservationRepo
}

type reads struct {
	dbtx db.DBTX
}

func (r *reads) ResourceByID(ctx context.Context, id resource.ID) (*resource.Resource, error) {
	return repository.NewResourceRepository(r.dbtx).FindByID(ctx, id)
}

func (r *reads) ReservationByID(ctx context.Context, id reservation.ID) (*reservation.Reservation, error) {
	return repository.NewReservationRepository(r.dbtx).FindByID(ctx, id)
}
