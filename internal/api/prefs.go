package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/likelyhq/reckon/internal/events"
	"github.com/likelyhq/reckon/internal/store"
)

type PrefsHandler struct {
	store  store.Store
	events events.Client
}

func NewPrefsHandler(s store.Store, ev events.Client) *PrefsHandler {
	return &PrefsHandler{store: s, events: ev}
}

func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.GetPrefs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// Visit increments the monotonic visit counter.
// POST /api/v1/prefs/visit
func (h *PrefsHandler) Visit(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.IncrementVisits(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	visitsTotal.Inc()

	if h.events != nil {
		_ = h.events.Publish(events.SubjectVisit, events.VisitEvent{
			VisitCount: count,
			Timestamp:  time.Now(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]int{"visit_count": count})
}

type CollapsedRequest struct {
	Collapsed bool `json:"collapsed"`
}

func (h *PrefsHandler) SetExplainer(w http.ResponseWriter, r *http.Request) {
	var req CollapsedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.store.SetExplainerCollapsed(r.Context(), req.Collapsed); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PrefsHandler) SetDisclaimer(w http.ResponseWriter, r *http.Request) {
	var req CollapsedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	key := store.DisclaimerKey(chi.URLParam(r, "category"), chi.URLParam(r, "profile"))
	if err := h.store.SetDisclaimerCollapsed(r.Context(), key, req.Collapsed); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
