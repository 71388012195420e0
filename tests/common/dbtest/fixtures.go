//go:build e2e

package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB truncates all engine tables so every subtest starts from a clean
// slate without paying for a fresh database.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		TRUNCATE TABLE reservations, resources, system_settings CASCADE
	`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// SeedResource inserts a resource row directly, bypassing the API.
func SeedResource(pool *pgxpool.Pool, id, resourceType string, capacity int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO resources (id, type, capacity, current_bookings, state, version)
		VALUES ($1, $2, $3, 0, 'OPEN', 1)
	`, id, resourceType, capacity)
	if err != nil {
		return fmt.Errorf("failed to seed resource %s: %w", id, err)
	}
	return nil
}
