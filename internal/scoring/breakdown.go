package scoring

// BreakdownMode selects how chart slices are assembled from a result.
type BreakdownMode string

const (
	// ModeFull100 emits every contribution plus a residual "Unlikelihood"
	// slice so the slices always sum to 100. The residual is omitted when
	// the total already covers the full scale.
	ModeFull100 BreakdownMode = "full100"
	// ModeLikelihood emits contributions only; slices sum to the total.
	ModeLikelihood BreakdownMode = "likelihood"
)

// ResidualLabel names the remainder slice in full-100 mode.
const ResidualLabel = "Unlikelihood"

// Slice is one chart segment.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Breakdown assembles chart slices from a result for the given display mode.
// Unknown modes fall back to ModeLikelihood.
func Breakdown(res Result, mode BreakdownMode) []Slice {
	slices := make([]Slice, 0, len(res.PerCriterion)+1)
	for _, cr := range res.PerCriterion {
		slices = append(slices, Slice{Label: cr.Metric, Value: cr.Contribution})
	}
	if mode == ModeFull100 {
		if residual := 100 - res.Total; residual > 0 {
			slices = append(slices, Slice{Label: ResidualLabel, Value: residual})
		}
	}
	return slices
}
