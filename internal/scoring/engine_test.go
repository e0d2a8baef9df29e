package scoring

import (
	"math"
	"testing"

	"github.com/likelyhq/reckon/internal/catalog"
)

func profileWithWeights(weights ...float64) *catalog.Profile {
	p := &catalog.Profile{Name: "Test"}
	for _, w := range weights {
		p.Criteria = append(p.Criteria, catalog.Criterion{Metric: "m", Weight: w})
	}
	return p
}

func TestAdjustedWeightsExactHundred(t *testing.T) {
	adjusted, rescaled := AdjustedWeights(profileWithWeights(50, 30, 20).Criteria)
	if rescaled {
		t.Error("weights summing to 100 must not be flagged as rescaled")
	}
	for i, want := range []float64{50, 30, 20} {
		if adjusted[i] != want {
			t.Errorf("adjusted[%d] = %f, want exactly %f (no drift on the 100 path)", i, adjusted[i], want)
		}
	}
}

func TestAdjustedWeightsRescale(t *testing.T) {
	adjusted, rescaled := AdjustedWeights(profileWithWeights(40, 40).Criteria)
	if !rescaled {
		t.Error("expected rescale flag for weights summing to 80")
	}
	if adjusted[0] != 50 || adjusted[1] != 50 {
		t.Errorf("expected [50, 50], got %v", adjusted)
	}
}

func TestAdjustedWeightsSumToHundred(t *testing.T) {
	cases := [][]float64{
		{1, 2, 3},
		{33, 33, 33},
		{0.1, 0.2, 0.7},
		{120, 60, 20},
		{7},
	}
	for _, weights := range cases {
		adjusted, _ := AdjustedWeights(profileWithWeights(weights...).Criteria)
		var sum float64
		for _, a := range adjusted {
			sum += a
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("weights %v: adjusted sum %f, want 100", weights, sum)
		}
	}
}

func TestAdjustedWeightsZeroSum(t *testing.T) {
	adjusted, rescaled := AdjustedWeights(profileWithWeights(0, 0).Criteria)
	// Zero-sum weights still warn: the nominal sum is not 100.
	if !rescaled {
		t.Error("zero-sum weights must raise the authoring warning")
	}
	for i, a := range adjusted {
		if a != 0 {
			t.Errorf("adjusted[%d] = %f, want 0", i, a)
		}
	}

	// No criteria at all is not an authoring mistake.
	if _, rescaled := AdjustedWeights(nil); rescaled {
		t.Error("empty criteria must not warn")
	}
}

func TestContributionEndpoints(t *testing.T) {
	if got := Contribution(1, 40, false); got != 0 {
		t.Errorf("score=1 non-inverted: got %f, want 0", got)
	}
	if got := Contribution(5, 40, false); got != 40 {
		t.Errorf("score=5 non-inverted: got %f, want full weight", got)
	}
	if got := Contribution(1, 40, true); got != 40 {
		t.Errorf("score=1 inverted: got %f, want full weight", got)
	}
	if got := Contribution(5, 40, true); got != 0 {
		t.Errorf("score=5 inverted: got %f, want 0", got)
	}
}

func TestComputeScenario(t *testing.T) {
	p := profileWithWeights(50, 30, 20)
	res := Compute(p, []float64{5, 1, 3})

	want := []float64{50, 0, 10}
	for i, cr := range res.PerCriterion {
		if math.Abs(cr.Contribution-want[i]) > 1e-9 {
			t.Errorf("contribution[%d] = %f, want %f", i, cr.Contribution, want[i])
		}
	}
	if math.Abs(res.Total-60) > 1e-9 {
		t.Errorf("total = %f, want 60", res.Total)
	}
	if res.WeightsRescaled {
		t.Error("unexpected rescale warning")
	}
}

func TestComputeInvertedCriterion(t *testing.T) {
	p := profileWithWeights(50, 30, 20)
	p.Criteria[2].Invert = true

	// Score 3 is the midpoint: inversion changes nothing.
	res := Compute(p, []float64{5, 1, 3})
	if math.Abs(res.PerCriterion[2].Contribution-10) > 1e-9 {
		t.Errorf("midpoint inverted contribution = %f, want 10", res.PerCriterion[2].Contribution)
	}

	// Score 5 shows the flip: full weight becomes zero.
	res = Compute(p, []float64{5, 1, 5})
	if res.PerCriterion[2].Contribution != 0 {
		t.Errorf("inverted contribution at score=5 = %f, want 0", res.PerCriterion[2].Contribution)
	}
}

func TestComputeTotalBounds(t *testing.T) {
	p := profileWithWeights(10, 25, 65)
	p.Criteria[1].Invert = true
	scoreSets := [][]float64{
		{1, 1, 1},
		{5, 5, 5},
		{1.25, 4.75, 3.5},
		{5, 1, 5},
	}
	for _, scores := range scoreSets {
		res := Compute(p, scores)
		if res.Total < 0 || res.Total > 100 {
			t.Errorf("scores %v: total %f outside [0, 100]", scores, res.Total)
		}
	}
}

func TestComputeEmptyProfile(t *testing.T) {
	res := Compute(&catalog.Profile{Name: "Empty"}, nil)
	if res.Total != 0 {
		t.Errorf("empty profile total = %f, want 0", res.Total)
	}
	if len(res.PerCriterion) != 0 {
		t.Errorf("expected no per-criterion results, got %d", len(res.PerCriterion))
	}
}

func TestComputeShortScores(t *testing.T) {
	p := profileWithWeights(50, 50)
	res := Compute(p, []float64{5})
	if math.Abs(res.PerCriterion[0].Contribution-50) > 1e-9 {
		t.Errorf("contribution[0] = %f, want 50", res.PerCriterion[0].Contribution)
	}
	// Missing score defaults to the slider rest position.
	if res.PerCriterion[1].Score != ScoreMin {
		t.Errorf("missing score = %f, want %f", res.PerCriterion[1].Score, ScoreMin)
	}
	if res.PerCriterion[1].Contribution != 0 {
		t.Errorf("contribution[1] = %f, want 0", res.PerCriterion[1].Contribution)
	}
}

func TestComputeOutOfRangeScores(t *testing.T) {
	p := profileWithWeights(100)
	// The engine must stay defined outside [1, 5]; no clamping, no panic.
	res := Compute(p, []float64{7})
	if math.Abs(res.PerCriterion[0].Contribution-150) > 1e-9 {
		t.Errorf("contribution = %f, want 150", res.PerCriterion[0].Contribution)
	}
}

func TestBreakdownModes(t *testing.T) {
	p := profileWithWeights(50, 30, 20)
	res := Compute(p, []float64{5, 1, 3}) // total 60

	full := Breakdown(res, ModeFull100)
	if len(full) != 4 {
		t.Fatalf("full100 slices = %d, want 4", len(full))
	}
	last := full[len(full)-1]
	if last.Label != ResidualLabel || math.Abs(last.Value-40) > 1e-9 {
		t.Errorf("residual slice = %+v, want {%s 40}", last, ResidualLabel)
	}
	var sum float64
	for _, s := range full {
		sum += s.Value
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("full100 slices sum to %f, want 100", sum)
	}

	likelihood := Breakdown(res, ModeLikelihood)
	if len(likelihood) != 3 {
		t.Fatalf("likelihood slices = %d, want 3", len(likelihood))
	}
	sum = 0
	for _, s := range likelihood {
		sum += s.Value
	}
	if math.Abs(sum-res.Total) > 1e-9 {
		t.Errorf("likelihood slices sum to %f, want total %f", sum, res.Total)
	}
}

func TestBreakdownNoResidualAtFullTotal(t *testing.T) {
	p := profileWithWeights(100)
	res := Compute(p, []float64{5}) // total 100
	full := Breakdown(res, ModeFull100)
	if len(full) != 1 {
		t.Errorf("expected residual omitted at total=100, got %d slices", len(full))
	}
}
