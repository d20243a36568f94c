package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"listing-range-api/internal/model"
	"listing-range-api/internal/service"
)

type RangeHandler struct {
	resolver *service.Resolver
	ranges   service.RangeStore
}

func NewRangeHandler(resolver *service.Resolver, ranges service.RangeStore) *RangeHandler {
	return &RangeHandler{resolver: resolver, ranges: ranges}
}

// ListByCategory lists the persistent ranges of one category.
func (h *RangeHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		badRequest(w, "invalid_category_id", "category id must be a UUID")
		return
	}

	ranges, err := h.ranges.ListByCategory(r.Context(), categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	if ranges == nil {
		ranges = []model.Range{}
	}

	writeJSON(w, http.StatusOK, model.RangesResponse{Ranges: ranges})
}

// MapToRanges resolves a batch of model counts to persistent ranges,
// creating buckets on first reference.
func (h *RangeHandler) MapToRanges(w http.ResponseWriter, r *http.Request) {
	var req model.MapRangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid_request", "request body must be valid JSON")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		badRequest(w, "invalid_category_id", "category_id must be a UUID")
		return
	}
	if len(req.ModelCounts) == 0 {
		badRequest(w, "empty_model_counts", "model_counts is required")
		return
	}

	mapped, skipped := h.resolver.MapToRanges(r.Context(), categoryID, req.ModelCounts)
	writeJSON(w, http.StatusOK, model.MapRangesResponse{Ranges: mapped, Skipped: skipped})
}

// EnsureUnknown resolves the reserved bucket for unmatched counts.
func (h *RangeHandler) EnsureUnknown(w http.ResponseWriter, r *http.Request) {
	var req model.EnsureUnknownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid_request", "request body must be valid JSON")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		badRequest(w, "invalid_category_id", "category_id must be a UUID")
		return
	}

	rg, err := h.resolver.EnsureUnknownRange(r.Context(), categoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rg)
}
