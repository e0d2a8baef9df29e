package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/likelyhq/reckon/internal/catalog"
	"github.com/likelyhq/reckon/internal/scoring"
)

type ScoreHandler struct {
	catalog *catalog.Catalog
}

func NewScoreHandler(c *catalog.Catalog) *ScoreHandler {
	return &ScoreHandler{catalog: c}
}

type ComputeRequest struct {
	Category string    `json:"category"`
	Profile  string    `json:"profile"`
	Scores   []float64 `json:"scores"`
	Mode     string    `json:"mode,omitempty"`
}

type ComputeResponse struct {
	scoring.Result
	PercentageLikelihood string          `json:"percentage_likelihood"`
	Breakdown            []scoring.Slice `json:"breakdown"`
}

// Compute evaluates a profile against the submitted scores.
// POST /api/v1/score
func (h *ScoreHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	prof := h.lookupProfile(req.Category, req.Profile)
	if prof == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown category or profile"})
		return
	}

	mode := scoring.BreakdownMode(req.Mode)
	if mode == "" {
		mode = scoring.ModeLikelihood
	}

	result := scoring.Compute(prof, req.Scores)
	computesTotal.Inc()

	writeJSON(w, http.StatusOK, ComputeResponse{
		Result:               result,
		PercentageLikelihood: FormatPercentage(result.Total),
		Breakdown:            scoring.Breakdown(result, mode),
	})
}

// Descriptor returns the descriptive text for a criterion at a score.
// GET /api/v1/descriptor?category=&profile=&criterion=&score=
func (h *ScoreHandler) Descriptor(w http.ResponseWriter, r *http.Request) {
	prof := h.lookupProfile(r.URL.Query().Get("category"), r.URL.Query().Get("profile"))
	if prof == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown category or profile"})
		return
	}
	idx, err := strconv.Atoi(r.URL.Query().Get("criterion"))
	if err != nil || idx < 0 || idx >= len(prof.Criteria) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid criterion index"})
		return
	}
	score, err := strconv.ParseFloat(r.URL.Query().Get("score"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid score"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"descriptor": scoring.Descriptor(&prof.Criteria[idx], score),
	})
}

func (h *ScoreHandler) lookupProfile(categorySlug, profileSlug string) *catalog.Profile {
	cat, _ := h.catalog.BySlug(categorySlug)
	if cat == nil {
		return nil
	}
	prof, _ := cat.ProfileBySlug(profileSlug)
	return prof
}

// FormatPercentage renders a 0-100 total the way results are persisted.
func FormatPercentage(total float64) string {
	return strconv.FormatFloat(total, 'f', 2, 64)
}
