package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/model"
)

// Resolver maps model names to persistent range buckets, creating them on
// first reference.
type Resolver struct {
	ranges RangeStore
	log    *slog.Logger
}

func NewResolver(ranges RangeStore, log *slog.Logger) *Resolver {
	return &Resolver{ranges: ranges, log: log}
}

// ResolveRange returns the range for (category, name), creating it when
// absent. When the create loses the uniqueness race to a concurrent
// writer, the winner's row is re-fetched exactly once; a failure at that
// point is genuine and propagates.
func (s *Resolver) ResolveRange(ctx context.Context, categoryID uuid.UUID, name string) (*model.Range, error) {
	rg, err := s.ranges.FindByName(ctx, categoryID, name)
	if err == nil {
		return rg, nil
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}

	rg, err = s.ranges.Create(ctx, categoryID, name)
	if err == nil {
		return rg, nil
	}
	if apperr.IsKind(err, apperr.Conflict) {
		s.log.Info("lost range create race, re-fetching", "category_id", categoryID, "name", name)
		return s.ranges.FindByName(ctx, categoryID, name)
	}
	return nil, err
}

// EnsureUnknownRange resolves the reserved bucket for unmatched line
// counts.
func (s *Resolver) EnsureUnknownRange(ctx context.Context, categoryID uuid.UUID) (*model.Range, error) {
	return s.ResolveRange(ctx, categoryID, model.UnknownRangeName)
}

// MapToRanges resolves a batch of model counts in order. Pairs with a
// non-positive count or a failed resolution are skipped and reported, not
// fatal: one bad name never aborts its siblings.
func (s *Resolver) MapToRanges(ctx context.Context, categoryID uuid.UUID, counts []model.ModelCount) ([]model.MappedRange, []string) {
	mapped := make([]model.MappedRange, 0, len(counts))
	var skipped []string

	for _, mc := range counts {
		if mc.ModelName == "" || mc.Count <= 0 {
			skipped = append(skipped, mc.ModelName)
			continue
		}
		rg, err := s.ResolveRange(ctx, categoryID, mc.ModelName)
		if err != nil {
			s.log.Error("failed to resolve range, skipping", "name", mc.ModelName, "error", err)
			skipped = append(skipped, mc.ModelName)
			continue
		}
		mapped = append(mapped, model.MappedRange{
			RangeID:  rg.ID,
			Name:     rg.Name,
			Quantity: mc.Count,
		})
	}

	return mapped, skipped
}
