package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/matching"
	"listing-range-api/internal/model"
)

// CatalogProvider is the cache the analyzer reads candidate entries from.
// Implemented by catalogcache.Cache.
type CatalogProvider interface {
	Get(ctx context.Context, kind model.Kind, forceRefresh bool) ([]model.DerivedEntry, error)
}

// RangeStore is the persistent range bucket store. Implemented by
// repository.RangeRepo.
type RangeStore interface {
	FindByName(ctx context.Context, categoryID uuid.UUID, name string) (*model.Range, error)
	Create(ctx context.Context, categoryID uuid.UUID, name string) (*model.Range, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Range, error)
}

// Analyzer scans free-text listing copy line by line and reports which
// catalog models each line mentions.
type Analyzer struct {
	catalog CatalogProvider
	ranges  RangeStore
	log     *slog.Logger
}

func NewAnalyzer(catalog CatalogProvider, ranges RangeStore, log *slog.Logger) *Analyzer {
	return &Analyzer{catalog: catalog, ranges: ranges, log: log}
}

// Analyze matches every non-empty line of text against the catalog of the
// given kind plus, when a category is supplied, that category's existing
// ranges. Existing range names are prepended to the pool so they take the
// tie when a containment start index coincides with a catalog entry's.
func (s *Analyzer) Analyze(ctx context.Context, text string, kind model.Kind, categoryID *uuid.UUID) (*model.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.Validation, "empty_text", "analysis text is required")
	}

	entries, err := s.catalog.Get(ctx, kind, false)
	if err != nil {
		return nil, err
	}

	var pool []model.DerivedEntry
	if categoryID != nil {
		existing, err := s.ranges.ListByCategory(ctx, *categoryID)
		if err != nil {
			return nil, err
		}
		pool = make([]model.DerivedEntry, 0, len(existing)+len(entries))
		for _, rg := range existing {
			pool = append(pool, matching.DeriveName(rg.Name))
		}
	}
	pool = append(pool, entries...)

	if len(pool) == 0 {
		return nil, apperr.New(apperr.UpstreamEmpty, "catalog_empty",
			"catalog has no entries for this kind; run a catalog sync first")
	}

	result := &model.AnalysisResult{}
	byName := make(map[string]*model.ModelAggregate)
	var order []string

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineNumber := i + 1

		best, ok := matching.FindBestMatch(matching.Normalize(line), matching.NormalizeSpaces(line), pool)
		if !ok {
			result.UnmatchedLines = append(result.UnmatchedLines, model.LineMatch{
				LineNumber: lineNumber,
				Text:       line,
			})
			continue
		}

		result.Lines = append(result.Lines, model.LineMatch{
			LineNumber:  lineNumber,
			Text:        line,
			MatchedName: best.FullName,
		})

		agg, seen := byName[best.FullName]
		if !seen {
			agg = &model.ModelAggregate{ModelName: best.FullName}
			byName[best.FullName] = agg
			order = append(order, best.FullName)
		}
		agg.Count++
		agg.LineNumbers = append(agg.LineNumbers, lineNumber)
	}

	result.Aggregates = make([]model.ModelAggregate, 0, len(order))
	for _, name := range order {
		result.Aggregates = append(result.Aggregates, *byName[name])
	}
	sort.SliceStable(result.Aggregates, func(i, j int) bool {
		return result.Aggregates[i].Count > result.Aggregates[j].Count
	})
	result.UnmatchedCount = len(result.UnmatchedLines)

	s.log.Info("analysis complete",
		"kind", kind,
		"lines_matched", len(result.Lines),
		"lines_unmatched", result.UnmatchedCount,
		"models", len(result.Aggregates),
	)
	return result, nil
}
