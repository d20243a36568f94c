package model

import (
	"time"

	"github.com/google/uuid"
)

// UnknownRangeName is the reserved bucket for analyzed lines that matched
// no catalog entry. It is resolved through the same create-or-fetch path as
// any other range.
const UnknownRangeName = "Unknown"

// Range is a persistent, category-scoped named bucket used to tally how
// many listing items belong to a given model. Unique per (category, name);
// the database constraint is the arbiter when two writers race to create
// the same bucket.
type Range struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}
