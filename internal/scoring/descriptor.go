package scoring

import (
	"math"
	"sort"
	"strconv"

	"github.com/likelyhq/reckon/internal/catalog"
)

// Descriptor returns the descriptive text for the numerically nearest
// descriptor key to the given score. Keys are scores serialised as strings
// (typically "1" through "5"). When two keys are equidistant the lower key
// wins, so the lookup is deterministic regardless of map iteration order.
// Returns "" when the criterion defines no descriptors.
func Descriptor(c *catalog.Criterion, score float64) string {
	if len(c.ScoreDescriptors) == 0 {
		return ""
	}

	keys := make([]float64, 0, len(c.ScoreDescriptors))
	byKey := make(map[float64]string, len(c.ScoreDescriptors))
	for k, text := range c.ScoreDescriptors {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			continue
		}
		keys = append(keys, v)
		byKey[v] = text
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Float64s(keys)

	best := keys[0]
	bestDist := math.Abs(score - best)
	for _, k := range keys[1:] {
		if d := math.Abs(score - k); d < bestDist {
			best = k
			bestDist = d
		}
	}
	return byKey[best]
}
