package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"listing-range-api/internal/model"
	"listing-range-api/internal/service"
)

type AnalysisHandler struct {
	analyzer *service.Analyzer
}

func NewAnalysisHandler(analyzer *service.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

// Analyze runs a range analysis over free-text listing copy.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid_request", "request body must be valid JSON")
		return
	}

	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		badRequest(w, "invalid_kind", err.Error())
		return
	}

	var categoryID *uuid.UUID
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			badRequest(w, "invalid_category_id", "category_id must be a UUID")
			return
		}
		categoryID = &id
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Text, kind, categoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
