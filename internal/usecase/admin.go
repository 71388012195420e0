package usecase

import (
	"context"
	"errors"

	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"
)

var ErrResourceStateUnchanged = errs.New("resource already in requested state")

// ResourceCommands covers the admin surface: creation and the OPEN/CLOSED
// state machine. These paths write through Save without the FOR UPDATE lock,
// so a state change racing a commit can surface as a retryable conflict.
type ResourceCommands interface {
	Create(ctx context.Context, id resource.ID, resourceType string, capacity int) (*resource.Resource, event.Event, error)
	Open(ctx context.Context, id resource.ID) (*resource.Resource, event.Event, error)
	Close(ctx context.Context, id resource.ID) (*resource.Resource, event.Event, error)
	Get(ctx context.Context, id resource.ID) (*resource.Resource, error)
}

type resourceCommandsImpl struct {
	uow   shared.UnitOfWork
	cache CacheInvalidator
	clock clock.Clock
}

func NewResourceCommands(uow shared.UnitOfWork, cache CacheInvalidator, clk clock.Clock) ResourceCommands {
	return &resourceCommandsImpl{
		uow:   uow,
		cache: cache,
		clock: clk,
	}
}

func (c *resourceCommandsImpl) Create(ctx context.Context, id resource.ID, resourceType string, capacity int) (*resource.Resource, event.Event, error) {
	now := clock.NowMillis(c.clock)
	res, err := resource.NewResource(id, resourceType, capacity, now)
	if err != nil {
		return nil, nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if saveErr := tx.Resources().Save(ctx, res); saveErr != nil {
			return markStoreErr(saveErr)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	c.cache.Invalidate(id)
	return res, event.ResourceCreated{ResourceID: id, Capacity: capacity, At: now}, nil
}

func (c *resourceCommandsImpl) Open(ctx context.Context, id resource.ID) (*resource.Resource, event.Event, error) {
	res, err := c.transition(ctx, id, func(res *resource.Resource) (*resource.Resource, error) {
		return res.Open(clock.NowMillis(c.clock))
	})
	if err != nil {
		return nil, nil, err
	}
	return res, event.ResourceOpened{ResourceID: id, At: res.UpdatedAt()}, nil
}

func (c *resourceCommandsImpl) Close(ctx context.Context, id resource.ID) (*resource.Resource, event.Event, error) {
	res, err := c.transition(ctx, id, func(res *resource.Resource) (*resource.Resource, error) {
		return res.Close(clock.NowMillis(c.clock))
	})
	if err != nil {
		return nil, nil, err
	}
	return res, event.ResourceClosed{ResourceID: id, At: res.UpdatedAt()}, nil
}

func (c *resourceCommandsImpl) transition(
	ctx context.Context,
	id resource.ID,
	apply func(*resource.Resource) (*resource.Resource, error),
) (*resource.Resource, error) {
	var updated *resource.Resource
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := c.uow.Reads().ResourceByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrResourceNotFound
			}
			return markStoreErr(err)
		}

		next, err := apply(res)
		if err != nil {
			if errors.Is(err, resource.ErrAlreadyInState) {
				return errs.Mark(err, ErrResourceStateUnchanged)
			}
			return err
		}

		if err := tx.Resources().UpdateWithOptimisticLock(ctx, next); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, ErrConcurrencyConflict)
			}
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrResourceNotFound
			}
			return markStoreErr(err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate(id)
	return updated, nil
}

func (c *resourceCommandsImpl) Get(ctx context.Context, id resource.ID) (*resource.Resource, error) {
	res, err := c.uow.Reads().ResourceByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, markStoreErr(err)
	}
	return res, nil
}

type MaintenanceCommands interface {
	SetMaintenance(ctx context.Context, active bool) error
	MaintenanceActive(ctx context.Context) (bool, error)
}

type maintenanceCommandsImpl struct {
	settings shared.SettingsRepository
}

func NewMaintenanceCommands(settings shared.SettingsRepository) MaintenanceCommands {
	return &maintenanceCommandsImpl{settings: settings}
}

func (m *maintenanceCommandsImpl) SetMaintenance(ctx context.Context, active bool) error {
	if err := m.settings.SetMaintenance(ctx, active); err != nil {
		return markStoreErr(err)
	}
	return nil
}

func (m *maintenanceCommandsImpl) MaintenanceActive(ctx context.Context) (bool, error) {
	active, err := m.settings.MaintenanceActive(ctx)
	if err != nil {
		return false, markStoreErr(err)
	}
	return active, nil
}
