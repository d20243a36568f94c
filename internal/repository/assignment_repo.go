package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/model"
)

type AssignmentRepo struct {
	db *pgxpool.Pool
}

func NewAssignmentRepo(db *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// Get loads an assignment including its per-range breakdown and version.
func (r *AssignmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	query := `
		SELECT id, lister_id, quantity, completed_quantity, range_quantities, version, created_at, updated_at
		FROM assignments
		WHERE id = $1
	`

	var a model.Assignment
	var breakdown []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.ListerID, &a.Quantity, &a.CompletedQuantity, &breakdown, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.NotFound, "assignment_not_found", fmt.Sprintf("assignment %s not found", id), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &a.RangeQuantities); err != nil {
			return nil, fmt.Errorf("failed to decode range quantities: %w", err)
		}
	}

	return &a, nil
}

// SaveAllocations persists the breakdown and completed quantity in one
// statement guarded by the version the assignment was loaded at. A
// concurrent writer that committed first leaves zero matching rows, which
// surfaces as an apperr.Conflict instead of silently overwriting.
func (r *AssignmentRepo) SaveAllocations(ctx context.Context, a *model.Assignment) error {
	breakdown, err := json.Marshal(a.RangeQuantities)
	if err != nil {
		return fmt.Errorf("failed to encode range quantities: %w", err)
	}

	query := `
		UPDATE assignments
		SET range_quantities = $1, completed_quantity = $2, version = version + 1, updated_at = now()
		WHERE id = $3 AND version = $4
	`

	tag, err := r.db.Exec(ctx, query, breakdown, a.CompletedQuantity, a.ID, a.Version)
	if err != nil {
		return fmt.Errorf("failed to save allocations: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.Conflict, "assignment_version_conflict",
			fmt.Sprintf("assignment %s was modified concurrently", a.ID))
	}

	a.Version++
	return nil
}
