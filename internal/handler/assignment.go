package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"listing-range-api/internal/auth"
	"listing-range-api/internal/model"
	"listing-range-api/internal/service"
)

type AssignmentHandler struct {
	ledger *service.Ledger
}

func NewAssignmentHandler(ledger *service.Ledger) *AssignmentHandler {
	return &AssignmentHandler{ledger: ledger}
}

// ApplyBulk merges a batch of range quantity additions into an assignment.
func (h *AssignmentHandler) ApplyBulk(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid_assignment_id", "assignment id must be a UUID")
		return
	}

	var req model.ApplyBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid_request", "request body must be valid JSON")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		badRequest(w, "invalid_category_id", "category_id must be a UUID")
		return
	}
	if len(req.ModelCounts) == 0 && req.UnknownQuantity <= 0 {
		badRequest(w, "empty_allocation", "model_counts or unknown_quantity is required")
		return
	}

	resp, err := h.ledger.ApplyBulk(
		r.Context(),
		auth.FromContext(r.Context()),
		assignmentID,
		categoryID,
		req.ModelCounts,
		req.UnknownQuantity,
		req.RemainingLimit,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
