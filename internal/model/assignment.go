package model

import (
	"time"

	"github.com/google/uuid"
)

// RangeQuantity is one row of an assignment's per-range breakdown. Rows are
// unique per range id.
type RangeQuantity struct {
	RangeID  uuid.UUID `json:"range_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
}

// Assignment is a unit of listing work: a target quantity and a running
// breakdown by range. RangeQuantities is mutated exclusively through the
// allocation ledger, which persists the whole list in a single versioned
// write.
type Assignment struct {
	ID                uuid.UUID       `json:"id"`
	ListerID          string          `json:"lister_id"`
	Quantity          int             `json:"quantity"`
	CompletedQuantity int             `json:"completed_quantity"`
	RangeQuantities   []RangeQuantity `json:"range_quantities"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DistributedQuantity is the sum of all per-range quantities.
func (a *Assignment) DistributedQuantity() int {
	total := 0
	for _, rq := range a.RangeQuantities {
		total += rq.Quantity
	}
	return total
}

// RecomputeCompleted re-derives CompletedQuantity after any change to
// RangeQuantities. The distributed sum may exceed the target (pre-existing
// overages are tolerated); the completed figure never does.
func (a *Assignment) RecomputeCompleted() {
	total := a.DistributedQuantity()
	if total > a.Quantity {
		total = a.Quantity
	}
	a.CompletedQuantity = total
}
