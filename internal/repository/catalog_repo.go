package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"listing-range-api/internal/model"
)

type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ListByKind returns every reference entry of one catalog kind.
func (r *CatalogRepo) ListByKind(ctx context.Context, kind model.Kind) ([]model.CatalogEntry, error) {
	query := `
		SELECT id, kind, full_name, primary_attr, secondary_attr, device_type, synced_at
		FROM catalog_entries
		WHERE kind = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []model.CatalogEntry
	for rows.Next() {
		var e model.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.FullName, &e.Primary, &e.Secondary, &e.DeviceType, &e.SyncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ReplaceKind swaps out every entry of one kind in a single transaction.
// Used by the catalog import CLI; the caller must invalidate the cache
// afterwards.
func (r *CatalogRepo) ReplaceKind(ctx context.Context, kind model.Kind, entries []model.CatalogEntry) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM catalog_entries WHERE kind = $1`, string(kind)); err != nil {
		return 0, fmt.Errorf("failed to clear catalog entries: %w", err)
	}

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"catalog_entries"},
		[]string{"kind", "full_name", "primary_attr", "secondary_attr", "device_type"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{string(kind), e.FullName, e.Primary, e.Secondary, e.DeviceType}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy catalog entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit catalog replace: %w", err)
	}

	return copied, nil
}
