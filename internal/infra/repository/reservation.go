package repository

import (
	"context"
	"errors"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeLockNotAvailable    = "55P03"
	pgErrCodeQueryCanceled       = "57014"
)

func classifyPgError(err error) infra.RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return infra.KindDBFailure
	}
	switch pgErr.Code {
	case pgErrCodeUniqueViolation:
		return infra.KindDuplicateKey
	case pgErrCodeForeignKeyViolation:
		return infra.KindForeignKeyViolated
	case pgErrCodeLockNotAvailable, pgErrCodeQueryCanceled:
		return infra.KindTimeout
	default:
		return infra.KindDBFailure
	}
}

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

const reservationColumns = `id, resource_id, client_id, quantity, status, rejection_reason, server_timestamp, created_at`

func (r *ReservationRepository) Save(ctx context.Context, rsv *reservation.Reservation) error {
	var reason *string
	if rr := rsv.RejectionReason(); rr != nil {
		s := rr.String()
		reason = &s
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO reservations (id, resource_id, client_id, quantity, status, rejection_reason, server_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			rejection_reason = EXCLUDED.rejection_reason
	`,
		rsv.ID().UUID(),
		rsv.ResourceID().String(),
		rsv.ClientID().String(),
		rsv.Quantity().Int(),
		rsv.Status().String(),
		reason,
		rsv.ServerTimestamp(),
		rsv.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save reservation", err, classifyPgError(err))
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id reservation.ID) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE id = $1
	`, id.UUID())

	return r.scanReservation(row)
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id reservation.ID) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE id = $1
		FOR UPDATE
	`, id.UUID())

	return r.scanReservation(row)
}

// SumActiveQuantityByResourceID aggregates CONFIRMED quantities. Run inside
// a transaction it sees that transaction's own uncommitted rows, which is
// what the counter-drift guard relies on.
func (r *ReservationRepository) SumActiveQuantityByResourceID(ctx context.Context, resourceID resource.ID) (int, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint
		FROM reservations
		WHERE resource_id = $1
		  AND status = 'CONFIRMED'
	`, resourceID.String()).Scan(&total)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum active quantity", err, classifyPgError(err))
	}
	return int(total), nil
}

func (r *ReservationRepository) scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id              string
		resourceID      string
		clientID        string
		quantity        int
		status          string
		reason          *string
		serverTimestamp time.Time
		createdAt       time.Time
	)

	err := row.Scan(&id, &resourceID, &clientID, &quantity, &status, &reason, &serverTimestamp, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan reservation", err, classifyPgError(err))
	}

	parsedID, err := reservation.ParseID(id)
	if err != nil {
		return nil, infra.WrapRepoErr("reservation row has malformed id", err)
	}

	var reasonTag *reservation.RejectionReason
	if reason != nil {
		tag := reservation.RejectionReason(*reason)
		reasonTag = &tag
	}

	entity, err := reservation.ReconstructReservation(
		parsedID,
		resource.ID(resourceID),
		reservation.ClientID(clientID),
		reservation.Quantity(quantity),
		reservation.Status(status),
		reasonTag,
		serverTimestamp,
		createdAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("reservation row violates entity invariants", err)
	}
	return entity, nil
}
