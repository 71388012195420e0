package repository

import (
	"context"
	"errors"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"

	"github.com/jackc/pgx/v5"
	gocache "github.com/patrickmn/go-cache"
)

const (
	maintenanceKey = "maintenance_mode"
	settingOn      = "on"
	settingOff     = "off"
)

// SettingsRepository reads operator flags from system_settings. The
// maintenance flag fronts every commit, so it is cached with a short TTL
// instead of paying a settings read per request.
type SettingsRepository struct {
	db    db.DBTX
	flags *gocache.Cache
}

func NewSettingsRepository(dbtx db.DBTX, flagTTL time.Duration) *SettingsRepository {
	return &SettingsRepository{
		db:    dbtx,
		flags: gocache.New(flagTTL, 2*flagTTL),
	}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `
		SELECT value FROM system_settings WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", infra.WrapRepoErr("setting not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to read setting", err, classifyPgError(err))
	}
	return value, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO system_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`, key, value)
	if err != nil {
		return infra.WrapRepoErr("failed to write setting", err, classifyPgError(err))
	}
	return nil
}

func (r *SettingsRepository) MaintenanceActive(ctx context.Context) (bool, error) {
	if cached, ok := r.flags.Get(maintenanceKey); ok {
		return cached.(bool), nil
	}

	value, err := r.Get(ctx, maintenanceKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Flag was never set; default off.
			r.flags.SetDefault(maintenanceKey, false)
			return false, nil
		}
		return false, err
	}

	active := value == settingOn
	r.flags.SetDefault(maintenanceKey, active)
	return active, nil
}

func (r *SettingsRepository) SetMaintenance(ctx context.Context, active bool) error {
	value := settingOff
	if active {
		value = settingOn
	}
	if err := r.Set(ctx, maintenanceKey, value); err != nil {
		return err
	}
	r.flags.Delete(maintenanceKey)
	return nil
}
