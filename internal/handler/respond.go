package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"listing-range-api/internal/apperr"
	"listing-range-api/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy to HTTP statuses in one place.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch apperr.KindOf(err) {
	case apperr.Validation:
		status = http.StatusBadRequest
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.Conflict, apperr.UpstreamEmpty:
		status = http.StatusConflict
	}

	if status != http.StatusInternalServerError {
		var e *apperr.Error
		if errors.As(err, &e) {
			message = e.Message
		}
	} else {
		slog.Error("request failed", "error", err)
	}

	writeJSON(w, status, model.ErrorResponse{
		Error:   apperr.CodeOf(err),
		Message: message,
	})
}

func badRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: code, Message: message})
}
