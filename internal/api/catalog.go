package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/likelyhq/reckon/internal/catalog"
	"github.com/likelyhq/reckon/internal/nav"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) Full(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	cat, _ := h.catalog.BySlug(chi.URLParam(r, "category"))
	if cat == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *CatalogHandler) Profile(w http.ResponseWriter, r *http.Request) {
	cat, _ := h.catalog.BySlug(chi.URLParam(r, "category"))
	if cat == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
		return
	}
	prof, _ := cat.ProfileBySlug(chi.URLParam(r, "profile"))
	if prof == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

type NavHandler struct {
	resolver *nav.Resolver
}

func NewNavHandler(r *nav.Resolver) *NavHandler {
	return &NavHandler{resolver: r}
}

// Resolve maps a browser path to a (category, profile) selection.
// GET /api/v1/resolve?path=/{categorySlug}/{profileSlug}
// Unknown paths still resolve: the response carries the fallback selection
// with not_found set, and the canonical path to sync the address bar to.
func (h *NavHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolver.Resolve(r.URL.Query().Get("path")))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
