package repository

import (
	"context"
	"errors"
	"time"

	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

type ResourceRepository struct {
	db db.DBTX
}

func NewResourceRepository(dbtx db.DBTX) *ResourceRepository {
	return &ResourceRepository{db: dbtx}
}

const resourceColumns = `id, type, capacity, current_bookings, state, version, created_at, updated_at`

func (r *ResourceRepository) FindByID(ctx context.Context, id resource.ID) (*resource.Resource, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+resourceColumns+`
		FROM resources
		WHERE id = $1
	`, id.String())

	return r.scanResource(row)
}

// FindByIDForUpdate acquires an exclusive row lock held until the
// surrounding transaction ends. Concurrent commits for the same resource
// serialize here.
func (r *ResourceRepository) FindByIDForUpdate(ctx context.Context, id resource.ID) (*resource.Resource, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+resourceColumns+`
		FROM resources
		WHERE id = $1
		FOR UPDATE
	`, id.String())

	return r.scanResource(row)
}

// Save upserts unconditionally. Used for creation and admin paths only; the
// commit/cancel paths go through UpdateWithOptimisticLock.
func (r *ResourceRepository) Save(ctx context.Context, res *resource.Resource) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO resources (id, type, capacity, current_bookings, state, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			capacity = EXCLUDED.capacity,
			current_bookings = EXCLUDED.current_bookings,
			state = EXCLUDED.state,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
	`,
		res.ID().String(),
		res.Type(),
		res.Capacity(),
		res.CurrentBookings(),
		res.State().String(),
		res.Version(),
		res.CreatedAt(),
		res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save resource", err, classifyPgError(err))
	}
	return nil
}

// UpdateWithOptimisticLock writes conditional on the stored version being
// res.Version()-1. Behind the row lock the condition cannot fail from the
// commit path; a mismatch means some other lock discipline touched the row.
func (r *ResourceRepository) UpdateWithOptimisticLock(ctx context.Context, res *resource.Resource) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE resources
		SET type = $2,
		    capacity = $3,
		    current_bookings = $4,
		    state = $5,
		    version = $6,
		    updated_at = $7
		WHERE id = $1 AND version = $8
	`,
		res.ID().String(),
		res.Type(),
		res.Capacity(),
		res.CurrentBookings(),
		res.State().String(),
		res.Version(),
		res.UpdatedAt(),
		res.Version()-1,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update resource", err, classifyPgError(err))
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a vanished row from a version race.
		var exists bool
		if checkErr := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM resources WHERE id = $1)`, res.ID().String(),
		).Scan(&exists); checkErr != nil {
			return infra.WrapRepoErr("failed to check resource existence", checkErr, classifyPgError(checkErr))
		}
		if !exists {
			return infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("resource version conflict", nil, infra.KindConflict)
	}

	return nil
}

func (r *ResourceRepository) scanResource(row pgx.Row) (*resource.Resource, error) {
	var (
		id              string
		resourceType    string
		capacity        int
		currentBookings int
		state           string
		version         int64
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(&id, &resourceType, &capacity, &currentBookings, &state, &version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan resource", err, classifyPgError(err))
	}

	entity, err := resource.ReconstructResource(
		resource.ID(id),
		resourceType,
		capacity,
		currentBookings,
		resource.State(state),
		version,
		createdAt,
		updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("resource row violates entity invariants", err)
	}
	return entity, nil
}
