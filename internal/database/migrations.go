package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations executes all database migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS catalog_entries (
			id BIGSERIAL PRIMARY KEY,
			kind TEXT NOT NULL,
			full_name TEXT NOT NULL,
			primary_attr TEXT NOT NULL DEFAULT '',
			secondary_attr TEXT NOT NULL DEFAULT '',
			device_type TEXT NOT NULL DEFAULT '',
			synced_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_catalog_entries_kind
			ON catalog_entries (kind)`,

		`CREATE TABLE IF NOT EXISTS ranges (
			id UUID PRIMARY KEY,
			category_id UUID NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		// The arbiter for concurrent create-or-fetch: losers see a
		// unique violation and re-fetch.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ranges_category_name
			ON ranges (category_id, name)`,

		`CREATE TABLE IF NOT EXISTS assignments (
			id UUID PRIMARY KEY,
			lister_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			completed_quantity INTEGER NOT NULL DEFAULT 0,
			range_quantities JSONB NOT NULL DEFAULT '[]',
			version BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_lister
			ON assignments (lister_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
