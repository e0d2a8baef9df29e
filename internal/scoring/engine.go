package scoring

import (
	"github.com/likelyhq/reckon/internal/catalog"
)

// Score input range. The slider steps in 0.25 increments; the engine stays
// defined for any real input and never re-validates range.
const (
	ScoreMin  = 1.0
	ScoreMax  = 5.0
	ScoreStep = 0.25
)

// CriterionResult captures one criterion's share of the aggregate likelihood.
type CriterionResult struct {
	Index          int     `json:"index"`
	Metric         string  `json:"metric"`
	Score          float64 `json:"score"`
	Weight         float64 `json:"weight"`
	AdjustedWeight float64 `json:"adjusted_weight"`
	Contribution   float64 `json:"contribution"`
	Inverted       bool    `json:"inverted,omitempty"`
	Descriptor     string  `json:"descriptor,omitempty"`
}

// Result is the complete scoring output for one profile evaluation.
type Result struct {
	PerCriterion []CriterionResult `json:"per_criterion"`
	// Total is the percentage likelihood, already on the 0-100 scale.
	Total float64 `json:"total"`
	// WeightsRescaled is set when the profile's nominal weights did not sum
	// to 100, including the degenerate all-zero case. The presentation layer
	// surfaces this as a catalog-authoring warning.
	WeightsRescaled bool `json:"weights_rescaled"`
}

// AdjustedWeights rescales the profile's nominal weights so they sum to 100.
// When the nominal sum is already exactly 100 the weights pass through
// untouched, so no floating error is introduced on the common path. A zero
// sum yields all-zero weights rather than a division by zero; criteria whose
// weights sum to zero still raise the authoring warning.
func AdjustedWeights(criteria []catalog.Criterion) ([]float64, bool) {
	adjusted := make([]float64, len(criteria))
	var sum float64
	for _, c := range criteria {
		sum += c.Weight
	}
	if sum == 0 {
		return adjusted, len(criteria) > 0
	}
	if sum == 100 {
		for i, c := range criteria {
			adjusted[i] = c.Weight
		}
		return adjusted, false
	}
	for i, c := range criteria {
		adjusted[i] = c.Weight / sum * 100
	}
	return adjusted, true
}

// Contribution maps a score in [ScoreMin, ScoreMax] onto [0, adjustedWeight],
// linear in between. An inverted criterion flips the polarity: low scores
// contribute fully, high scores contribute nothing.
func Contribution(score, adjustedWeight float64, inverted bool) float64 {
	if inverted {
		return (ScoreMax - score) * adjustedWeight / (ScoreMax - ScoreMin)
	}
	return (score - ScoreMin) * adjustedWeight / (ScoreMax - ScoreMin)
}

// Compute evaluates a profile against a parallel array of user scores, one
// per criterion. Missing trailing scores default to ScoreMin (the slider
// rest position); extra scores are ignored.
func Compute(profile *catalog.Profile, scores []float64) Result {
	adjusted, rescaled := AdjustedWeights(profile.Criteria)

	result := Result{
		PerCriterion:    make([]CriterionResult, len(profile.Criteria)),
		WeightsRescaled: rescaled,
	}

	for i := range profile.Criteria {
		c := &profile.Criteria[i]
		score := ScoreMin
		if i < len(scores) {
			score = scores[i]
		}
		contribution := Contribution(score, adjusted[i], c.Invert)
		result.PerCriterion[i] = CriterionResult{
			Index:          i,
			Metric:         c.Metric,
			Score:          score,
			Weight:         c.Weight,
			AdjustedWeight: adjusted[i],
			Contribution:   contribution,
			Inverted:       c.Invert,
			Descriptor:     Descriptor(c, score),
		}
		result.Total += contribution
	}
	return result
}
