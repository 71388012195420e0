package components

import (
	"reservation-engine/internal/infra/cache"
	"reservation-engine/internal/infra/repository"
	"reservation-engine/internal/infra/uow"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Settings
		fx.Annotate(
			NewSettingsRepository,
			fx.As(new(shared.SettingsRepository)),
		),
		// Availability cache
		NewAvailabilityCache,
	),
)

func NewSettingsRepository(pool *pgxpool.Pool, cfg config.Config) *repository.SettingsRepository {
	return repository.NewSettingsRepository(pool, cfg.Cache.SettingsTTL)
}

func NewAvailabilityCache(u shared.UnitOfWork, clk clock.Clock, cfg config.Config) *cache.AvailabilityCache {
	return cache.NewAvailabilityCache(u.Reads(), clk, cfg.Cache.MaxSize, cfg.Cache.TTL)
}
