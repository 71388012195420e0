package components

import (
	"reservation-engine/internal/infra/cache"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			func(c *cache.AvailabilityCache) *cache.AvailabilityCache { return c },
			fx.As(new(usecase.CacheInvalidator)),
			fx.As(new(usecase.AvailabilityCache)),
		),
		usecase.NewCommitService,
		usecase.NewCancelService,
		usecase.NewAvailabilityQueries,
		usecase.NewReservationQueries,
		usecase.NewResourceCommands,
		usecase.NewMaintenanceCommands,
	),
)
