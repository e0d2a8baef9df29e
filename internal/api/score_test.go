package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/likelyhq/reckon/internal/scoring"
)

func TestComputeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/score", ComputeRequest{
		Category: "investment",
		Profile:  "general-investor-engagement",
		Scores:   []float64{5, 3},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ComputeResponse
	decode(t, resp, &body)

	// responsiveness 5/60 contributes 60; inverted churn 3/40 contributes 20.
	require.Len(t, body.PerCriterion, 2)
	assert.InDelta(t, 60, body.PerCriterion[0].Contribution, 1e-9)
	assert.InDelta(t, 20, body.PerCriterion[1].Contribution, 1e-9)
	assert.True(t, body.PerCriterion[1].Inverted)
	assert.InDelta(t, 80, body.Total, 1e-9)
	assert.Equal(t, "80.00", body.PercentageLikelihood)
	assert.False(t, body.WeightsRescaled)

	// Default mode slices cover only the likelihood share.
	var sum float64
	for _, s := range body.Breakdown {
		sum += s.Value
	}
	assert.InDelta(t, body.Total, sum, 1e-9)
}

func TestComputeEndpointFullMode(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/score", ComputeRequest{
		Category: "investment",
		Profile:  "general-investor-engagement",
		Scores:   []float64{5, 3},
		Mode:     string(scoring.ModeFull100),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ComputeResponse
	decode(t, resp, &body)

	require.NotEmpty(t, body.Breakdown)
	last := body.Breakdown[len(body.Breakdown)-1]
	assert.Equal(t, scoring.ResidualLabel, last.Label)
	assert.InDelta(t, 100-body.Total, last.Value, 1e-9)

	var sum float64
	for _, s := range body.Breakdown {
		sum += s.Value
	}
	assert.InDelta(t, 100, sum, 1e-9)
}

func TestComputeEndpointUnknownProfile(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/score", ComputeRequest{
		Category: "investment",
		Profile:  "nonexistent",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDescriptorEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")
	base := srv.URL + "/api/v1/descriptor?category=investment&profile=general-investor-engagement"

	resp := doJSON(t, http.MethodGet, base+"&criterion=0&score=4.6", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "eager", body["descriptor"])

	resp = doJSON(t, http.MethodGet, base+"&criterion=9&score=3", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base+"&criterion=0&score=abc", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "60.00", FormatPercentage(60))
	assert.Equal(t, "0.00", FormatPercentage(0))
	assert.Equal(t, "33.33", FormatPercentage(100.0/3))
	assert.Equal(t, "100.00", FormatPercentage(100))
}
