package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/matching"
	"listing-range-api/internal/model"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCatalog struct {
	entries []model.DerivedEntry
	err     error
}

func (f *fakeCatalog) Get(ctx context.Context, kind model.Kind, force bool) ([]model.DerivedEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func catalogOf(names ...string) *fakeCatalog {
	c := &fakeCatalog{}
	for _, n := range names {
		c.entries = append(c.entries, matching.Derive(model.CatalogEntry{FullName: n}))
	}
	return c
}

// fakeRangeStore enforces (category, name) uniqueness like the database
// index does, including simulated lost races via conflictOnce.
type fakeRangeStore struct {
	mu           sync.Mutex
	ranges       map[string]*model.Range
	createCalls  int
	conflictOnce map[string]bool // inject one losing race per name
	failNames    map[string]bool // names whose create fails outright
}

func newFakeRangeStore() *fakeRangeStore {
	return &fakeRangeStore{
		ranges:       make(map[string]*model.Range),
		conflictOnce: make(map[string]bool),
		failNames:    make(map[string]bool),
	}
}

func key(categoryID uuid.UUID, name string) string {
	return categoryID.String() + "/" + name
}

func (f *fakeRangeStore) FindByName(ctx context.Context, categoryID uuid.UUID, name string) (*model.Range, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rg, ok := f.ranges[key(categoryID, name)]; ok {
		cp := *rg
		return &cp, nil
	}
	return nil, apperr.New(apperr.NotFound, "range_not_found", "not found")
}

func (f *fakeRangeStore) Create(ctx context.Context, categoryID uuid.UUID, name string) (*model.Range, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	if f.failNames[name] {
		return nil, errors.New("storage unavailable")
	}
	k := key(categoryID, name)
	if f.conflictOnce[name] {
		// Concurrent writer commits first: the row appears and this
		// create observes the unique violation.
		delete(f.conflictOnce, name)
		if _, ok := f.ranges[k]; !ok {
			f.ranges[k] = &model.Range{ID: uuid.New(), CategoryID: categoryID, Name: name}
		}
		return nil, apperr.New(apperr.Conflict, "range_exists", "duplicate")
	}
	if _, ok := f.ranges[k]; ok {
		return nil, apperr.New(apperr.Conflict, "range_exists", "duplicate")
	}
	rg := &model.Range{ID: uuid.New(), CategoryID: categoryID, Name: name}
	f.ranges[k] = rg
	cp := *rg
	return &cp, nil
}

func (f *fakeRangeStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Range, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Range
	for _, rg := range f.ranges {
		if rg.CategoryID == categoryID {
			out = append(out, *rg)
		}
	}
	return out, nil
}

type fakeAssignmentStore struct {
	mu           sync.Mutex
	assignments  map[uuid.UUID]*model.Assignment
	saveCalls    int
	conflictNext bool // next save loses to a concurrent writer
}

func newFakeAssignmentStore(seed ...*model.Assignment) *fakeAssignmentStore {
	f := &fakeAssignmentStore{assignments: make(map[uuid.UUID]*model.Assignment)}
	for _, a := range seed {
		cp := *a
		f.assignments[a.ID] = &cp
	}
	return f
}

func (f *fakeAssignmentStore) Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "assignment_not_found", "not found")
	}
	cp := *a
	cp.RangeQuantities = append([]model.RangeQuantity(nil), a.RangeQuantities...)
	return &cp, nil
}

func (f *fakeAssignmentStore) SaveAllocations(ctx context.Context, a *model.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.conflictNext {
		f.conflictNext = false
		return apperr.New(apperr.Conflict, "assignment_version_conflict", "modified concurrently")
	}
	stored, ok := f.assignments[a.ID]
	if !ok {
		return apperr.New(apperr.NotFound, "assignment_not_found", "not found")
	}
	if stored.Version != a.Version {
		return apperr.New(apperr.Conflict, "assignment_version_conflict", "modified concurrently")
	}
	cp := *a
	cp.Version++
	cp.RangeQuantities = append([]model.RangeQuantity(nil), a.RangeQuantities...)
	f.assignments[a.ID] = &cp
	a.Version++
	return nil
}
