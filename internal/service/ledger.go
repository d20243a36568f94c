package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/auth"
	"listing-range-api/internal/model"
)

// AssignmentStore is the assignment persistence the ledger funnels its
// single-mutation writes through. Implemented by repository.AssignmentRepo.
type AssignmentStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	SaveAllocations(ctx context.Context, a *model.Assignment) error
}

// Ledger reconciles requested range quantities against an assignment's
// capacity and persists the merged breakdown atomically.
type Ledger struct {
	assignments AssignmentStore
	resolver    *Resolver
	log         *slog.Logger
}

func NewLedger(assignments AssignmentStore, resolver *Resolver, log *slog.Logger) *Ledger {
	return &Ledger{assignments: assignments, resolver: resolver, log: log}
}

// ApplyBulk resolves the requested model counts to ranges, applies the
// budget-exhaustion rule when remainingLimit binds, merges the resulting
// deltas into the assignment's breakdown and persists everything in one
// versioned write.
//
// The budget rule is order-preserving, not proportional: the resolved list
// is walked in its original order and each entry takes min(requested,
// budget left); once the budget hits zero the rest are trimmed entirely.
func (s *Ledger) ApplyBulk(
	ctx context.Context,
	caller auth.Identity,
	assignmentID, categoryID uuid.UUID,
	counts []model.ModelCount,
	unknownQty int,
	remainingLimit *int,
) (*model.ApplyBulkResponse, error) {
	a, err := s.assignments.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessAssignment(a.ListerID) {
		return nil, apperr.New(apperr.Forbidden, "assignment_forbidden",
			"caller is not the owning lister of this assignment")
	}

	resolved, skipped := s.resolver.MapToRanges(ctx, categoryID, counts)
	if len(skipped) > 0 {
		s.log.Warn("skipped unresolvable model counts", "assignment_id", assignmentID, "skipped", skipped)
	}
	if unknownQty > 0 {
		unknown, err := s.resolver.EnsureUnknownRange(ctx, categoryID)
		if err != nil {
			s.log.Error("failed to resolve unknown bucket, skipping", "error", err)
		} else {
			resolved = append(resolved, model.MappedRange{
				RangeID:  unknown.ID,
				Name:     unknown.Name,
				Quantity: unknownQty,
			})
		}
	}

	totalRequested := 0
	for _, mr := range resolved {
		totalRequested += mr.Quantity
	}

	trimmed := 0
	if remainingLimit != nil && totalRequested > *remainingLimit {
		budget := *remainingLimit
		if budget < 0 {
			budget = 0
		}
		for i := range resolved {
			grant := resolved[i].Quantity
			if grant > budget {
				grant = budget
			}
			trimmed += resolved[i].Quantity - grant
			resolved[i].Quantity = grant
			budget -= grant
		}
	}

	applied := 0
	added := 0
	for _, mr := range resolved {
		if mr.Quantity <= 0 {
			continue
		}
		mergeQuantity(a, mr)
		applied++
		added += mr.Quantity
	}

	resp := &model.ApplyBulkResponse{
		AppliedCount:    applied,
		QuantityAdded:   added,
		QuantityTrimmed: trimmed,
	}

	if applied > 0 {
		a.RecomputeCompleted()
		if err := s.assignments.SaveAllocations(ctx, a); err != nil {
			return nil, err
		}
		s.log.Info("allocations applied",
			"assignment_id", assignmentID,
			"ranges", applied,
			"added", added,
			"trimmed", trimmed,
		)
	}

	resp.TotalDistributed = a.DistributedQuantity()
	resp.CompletedQuantity = a.CompletedQuantity
	resp.Remaining = remainingAfter(a, remainingLimit, added)
	return resp, nil
}

// mergeQuantity adds a delta into the breakdown: existing rows accumulate,
// new ranges append.
func mergeQuantity(a *model.Assignment, mr model.MappedRange) {
	for i := range a.RangeQuantities {
		if a.RangeQuantities[i].RangeID == mr.RangeID {
			a.RangeQuantities[i].Quantity += mr.Quantity
			return
		}
	}
	a.RangeQuantities = append(a.RangeQuantities, model.RangeQuantity{
		RangeID:  mr.RangeID,
		Name:     mr.Name,
		Quantity: mr.Quantity,
	})
}

func remainingAfter(a *model.Assignment, remainingLimit *int, added int) int {
	var remaining int
	if remainingLimit != nil {
		remaining = *remainingLimit - added
	} else {
		remaining = a.Quantity - a.DistributedQuantity()
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
