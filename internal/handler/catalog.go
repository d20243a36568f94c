package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"listing-range-api/internal/catalogcache"
	"listing-range-api/internal/model"
)

type CatalogHandler struct {
	cache *catalogcache.Cache
}

func NewCatalogHandler(cache *catalogcache.Cache) *CatalogHandler {
	return &CatalogHandler{cache: cache}
}

// List returns the cached snapshot for one kind.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		badRequest(w, "invalid_kind", err.Error())
		return
	}

	force := r.URL.Query().Get("refresh") == "true"
	entries, err := h.cache.Get(r.Context(), kind, force)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CatalogResponse{
		Kind:    kind,
		Total:   len(entries),
		Entries: entries,
	})
}

// Invalidate is the hook the catalog sync producer calls after writing new
// entries; the next analysis rebuilds the snapshot regardless of TTL.
func (h *CatalogHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		badRequest(w, "invalid_kind", err.Error())
		return
	}

	h.cache.Invalidate(kind)
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "kind": string(kind)})
}
