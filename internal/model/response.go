package model

import (
	"time"

	"github.com/google/uuid"
)

// AnalyzeRequest is the body of POST /api/v1/analysis.
type AnalyzeRequest struct {
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	CategoryID string `json:"category_id,omitempty"`
}

// ModelCount is one requested {model name, quantity} pair.
type ModelCount struct {
	ModelName string `json:"model_name"`
	Count     int    `json:"count"`
}

// MapRangesRequest is the body of POST /api/v1/ranges/map.
type MapRangesRequest struct {
	CategoryID  string       `json:"category_id"`
	ModelCounts []ModelCount `json:"model_counts"`
}

// MappedRange is a model count resolved to its persistent range.
type MappedRange struct {
	RangeID  uuid.UUID `json:"range_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
}

// MapRangesResponse lists resolved ranges plus the model names that were
// skipped (non-positive count or resolution failure).
type MapRangesResponse struct {
	Ranges  []MappedRange `json:"ranges"`
	Skipped []string      `json:"skipped,omitempty"`
}

// EnsureUnknownRequest is the body of POST /api/v1/ranges/unknown.
type EnsureUnknownRequest struct {
	CategoryID string `json:"category_id"`
}

// ApplyBulkRequest is the body of POST /api/v1/assignments/{id}/allocations.
type ApplyBulkRequest struct {
	CategoryID      string       `json:"category_id"`
	ModelCounts     []ModelCount `json:"model_counts"`
	UnknownQuantity int          `json:"unknown_quantity,omitempty"`
	RemainingLimit  *int         `json:"remaining_limit,omitempty"`
}

// ApplyBulkResponse summarizes one bulk allocation.
type ApplyBulkResponse struct {
	AppliedCount      int `json:"applied_count"`
	QuantityAdded     int `json:"quantity_added"`
	QuantityTrimmed   int `json:"quantity_trimmed"`
	TotalDistributed  int `json:"total_distributed"`
	Remaining         int `json:"remaining"`
	CompletedQuantity int `json:"completed_quantity"`
}

// CatalogResponse is the cached snapshot for one kind.
type CatalogResponse struct {
	Kind    Kind           `json:"kind"`
	Total   int            `json:"total"`
	Entries []DerivedEntry `json:"entries"`
}

// RangesResponse lists the ranges of one category.
type RangesResponse struct {
	Ranges []Range `json:"ranges"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
