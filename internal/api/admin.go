package api

import (
	"net/http"

	"github.com/likelyhq/reckon/internal/catalog"
	"github.com/likelyhq/reckon/internal/store"
)

type AdminHandler struct {
	catalog *catalog.Catalog
	store   store.Store
}

func NewAdminHandler(c *catalog.Catalog, s store.Store) *AdminHandler {
	return &AdminHandler{catalog: c, store: s}
}

type StatsResponse struct {
	VisitCount        int            `json:"visit_count"`
	EntityCounts      map[string]int `json:"entity_counts"`
	TotalEntities     int            `json:"total_entities"`
	TotalSavedResults int            `json:"total_saved_results"`
}

// Stats reports per-category entity counts and the visit counter.
// GET /api/v1/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.GetPrefs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := StatsResponse{
		VisitCount:   prefs.VisitCount,
		EntityCounts: make(map[string]int, len(h.catalog.Categories)),
	}
	for i := range h.catalog.Categories {
		cat := &h.catalog.Categories[i]
		entities, err := h.store.ListEntities(r.Context(), cat.Name)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.EntityCounts[cat.Name] = len(entities)
		resp.TotalEntities += len(entities)
		for _, e := range entities {
			resp.TotalSavedResults += len(e.Results)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
