package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/auth"
	"listing-range-api/internal/model"
)

func newLedgerFixture(a *model.Assignment) (*Ledger, *fakeAssignmentStore, *fakeRangeStore) {
	ranges := newFakeRangeStore()
	assignments := newFakeAssignmentStore(a)
	ledger := NewLedger(assignments, NewResolver(ranges, discard()), discard())
	return ledger, assignments, ranges
}

func admin() auth.Identity {
	return auth.Identity{UserID: "admin-1", Role: auth.RoleAdmin}
}

func intPtr(v int) *int { return &v }

func TestApplyBulkBudgetExhaustion(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 100}
	ledger, store, _ := newLedgerFixture(a)
	categoryID := uuid.New()

	resp, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, categoryID, []model.ModelCount{
		{ModelName: "A", Count: 5},
		{ModelName: "B", Count: 5},
		{ModelName: "C", Count: 5},
	}, 0, intPtr(7))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if resp.QuantityAdded != 7 {
		t.Fatalf("quantity added = %d, want 7", resp.QuantityAdded)
	}
	if resp.QuantityTrimmed != 8 {
		t.Fatalf("quantity trimmed = %d, want 8", resp.QuantityTrimmed)
	}
	if resp.AppliedCount != 2 {
		t.Fatalf("applied count = %d, want 2 (C trimmed to zero)", resp.AppliedCount)
	}
	if resp.TotalDistributed != 7 {
		t.Fatalf("total distributed = %d, want 7", resp.TotalDistributed)
	}
	if resp.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", resp.Remaining)
	}

	saved, err := store.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := map[string]int{"A": 5, "B": 2}
	if len(saved.RangeQuantities) != len(want) {
		t.Fatalf("breakdown rows = %+v", saved.RangeQuantities)
	}
	for _, rq := range saved.RangeQuantities {
		if want[rq.Name] != rq.Quantity {
			t.Fatalf("%s allocated %d, want %d", rq.Name, rq.Quantity, want[rq.Name])
		}
	}
}

func TestApplyBulkMergesExistingRows(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 50}
	ledger, store, _ := newLedgerFixture(a)
	categoryID := uuid.New()

	if _, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, categoryID,
		[]model.ModelCount{{ModelName: "Honda Accord", Count: 4}}, 0, nil); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	resp, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, categoryID,
		[]model.ModelCount{{ModelName: "Honda Accord", Count: 3}}, 0, nil)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if resp.TotalDistributed != 7 {
		t.Fatalf("total distributed = %d, want 7", resp.TotalDistributed)
	}
	saved, _ := store.Get(context.Background(), a.ID)
	if len(saved.RangeQuantities) != 1 || saved.RangeQuantities[0].Quantity != 7 {
		t.Fatalf("expected one merged row of 7, got %+v", saved.RangeQuantities)
	}
}

func TestApplyBulkUnknownBucket(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 50}
	ledger, store, _ := newLedgerFixture(a)

	resp, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, uuid.New(),
		[]model.ModelCount{{ModelName: "Honda Accord", Count: 2}}, 3, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.QuantityAdded != 5 {
		t.Fatalf("quantity added = %d, want 5", resp.QuantityAdded)
	}

	saved, _ := store.Get(context.Background(), a.ID)
	found := false
	for _, rq := range saved.RangeQuantities {
		if rq.Name == model.UnknownRangeName && rq.Quantity == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an Unknown row of 3, got %+v", saved.RangeQuantities)
	}
}

func TestApplyBulkCompletedQuantityClamp(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 6}
	ledger, store, _ := newLedgerFixture(a)

	resp, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, uuid.New(),
		[]model.ModelCount{{ModelName: "Honda Accord", Count: 10}}, 0, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.TotalDistributed != 10 {
		t.Fatalf("total distributed = %d, want 10", resp.TotalDistributed)
	}
	if resp.CompletedQuantity != 6 {
		t.Fatalf("completed = %d, must clamp at target 6", resp.CompletedQuantity)
	}

	saved, _ := store.Get(context.Background(), a.ID)
	if saved.CompletedQuantity != 6 {
		t.Fatalf("persisted completed = %d, want 6", saved.CompletedQuantity)
	}
}

func TestApplyBulkOwnership(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 10}
	ledger, _, _ := newLedgerFixture(a)
	counts := []model.ModelCount{{ModelName: "Honda Accord", Count: 1}}

	stranger := auth.Identity{UserID: "lister-2", Role: auth.RoleLister}
	if _, err := ledger.ApplyBulk(context.Background(), stranger, a.ID, uuid.New(), counts, 0, nil); !apperr.IsKind(err, apperr.Forbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	owner := auth.Identity{UserID: "lister-1", Role: auth.RoleLister}
	if _, err := ledger.ApplyBulk(context.Background(), owner, a.ID, uuid.New(), counts, 0, nil); err != nil {
		t.Fatalf("owning lister must be allowed: %v", err)
	}
}

func TestApplyBulkMissingAssignment(t *testing.T) {
	ledger, _, _ := newLedgerFixture(&model.Assignment{ID: uuid.New(), ListerID: "lister-1"})
	_, err := ledger.ApplyBulk(context.Background(), admin(), uuid.New(), uuid.New(), nil, 0, nil)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestApplyBulkSkipsNonPositiveAndKeepsGoing(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 50}
	ledger, _, ranges := newLedgerFixture(a)
	ranges.failNames["Broken"] = true

	resp, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, uuid.New(), []model.ModelCount{
		{ModelName: "Honda Accord", Count: 2},
		{ModelName: "Broken", Count: 9},
		{ModelName: "Negative", Count: -1},
	}, 0, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.AppliedCount != 1 || resp.QuantityAdded != 2 {
		t.Fatalf("expected only the good pair applied: %+v", resp)
	}
}

func TestApplyBulkNothingToApplySkipsWrite(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 10}
	ledger, store, _ := newLedgerFixture(a)

	resp, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, uuid.New(),
		[]model.ModelCount{{ModelName: "Honda Accord", Count: 5}}, 0, intPtr(0))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.QuantityAdded != 0 || resp.QuantityTrimmed != 5 {
		t.Fatalf("expected everything trimmed: %+v", resp)
	}
	if store.saveCalls != 0 {
		t.Fatalf("no-op allocation must not persist, saves = %d", store.saveCalls)
	}
}

func TestApplyBulkConflictSurfaces(t *testing.T) {
	a := &model.Assignment{ID: uuid.New(), ListerID: "lister-1", Quantity: 10, Version: 3}
	ranges := newFakeRangeStore()
	assignments := newFakeAssignmentStore(a)
	ledger := NewLedger(assignments, NewResolver(ranges, discard()), discard())

	// A concurrent writer commits between this call's read and write.
	assignments.conflictNext = true

	_, err := ledger.ApplyBulk(context.Background(), admin(), a.ID, uuid.New(),
		[]model.ModelCount{{ModelName: "Honda Accord", Count: 1}}, 0, nil)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
