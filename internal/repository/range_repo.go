package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/model"
)

// Postgres unique_violation; the (category_id, name) index is the arbiter
// for concurrent range creation.
const uniqueViolationCode = "23505"

type RangeRepo struct {
	db *pgxpool.Pool
}

func NewRangeRepo(db *pgxpool.Pool) *RangeRepo {
	return &RangeRepo{db: db}
}

// FindByName looks up a range by (category, name). Absence surfaces as an
// apperr.NotFound so callers never touch storage error values.
func (r *RangeRepo) FindByName(ctx context.Context, categoryID uuid.UUID, name string) (*model.Range, error) {
	query := `
		SELECT id, category_id, name, created_at
		FROM ranges
		WHERE category_id = $1 AND name = $2
	`

	var rg model.Range
	err := r.db.QueryRow(ctx, query, categoryID, name).Scan(&rg.ID, &rg.CategoryID, &rg.Name, &rg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.NotFound, "range_not_found", fmt.Sprintf("range %q not found", name), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find range: %w", err)
	}

	return &rg, nil
}

// Create inserts a new range. A unique-constraint violation surfaces as an
// apperr.Conflict, which the resolver treats as "a concurrent writer won".
func (r *RangeRepo) Create(ctx context.Context, categoryID uuid.UUID, name string) (*model.Range, error) {
	query := `
		INSERT INTO ranges (id, category_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, category_id, name, created_at
	`

	var rg model.Range
	err := r.db.QueryRow(ctx, query, uuid.New(), categoryID, name).Scan(&rg.ID, &rg.CategoryID, &rg.Name, &rg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperr.Wrap(apperr.Conflict, "range_exists", fmt.Sprintf("range %q already exists", name), err)
		}
		return nil, fmt.Errorf("failed to create range: %w", err)
	}

	return &rg, nil
}

// ListByCategory returns every range of one category, oldest first, so the
// analyzer's candidate pool keeps a stable order.
func (r *RangeRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Range, error) {
	query := `
		SELECT id, category_id, name, created_at
		FROM ranges
		WHERE category_id = $1
		ORDER BY created_at, name
	`

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranges: %w", err)
	}
	defer rows.Close()

	var ranges []model.Range
	for rows.Next() {
		var rg model.Range
		if err := rows.Scan(&rg.ID, &rg.CategoryID, &rg.Name, &rg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan range: %w", err)
		}
		ranges = append(ranges, rg)
	}

	return ranges, rows.Err()
}
