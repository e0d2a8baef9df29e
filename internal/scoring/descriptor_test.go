package scoring

import (
	"testing"

	"github.com/likelyhq/reckon/internal/catalog"
)

func TestDescriptorLookup(t *testing.T) {
	c := &catalog.Criterion{
		Metric: "engagement",
		ScoreDescriptors: map[string]string{
			"1": "a",
			"3": "b",
			"5": "c",
		},
	}

	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"exact match", 3, "b"},
		{"nearest above", 3.1, "b"},
		{"nearest below", 4.6, "c"},
		{"tie prefers lower key", 4, "b"},
		{"below range", 0, "a"},
		{"above range", 9, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Descriptor(c, tt.score); got != tt.want {
				t.Errorf("Descriptor(%f) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}

func TestDescriptorNoDescriptors(t *testing.T) {
	if got := Descriptor(&catalog.Criterion{Metric: "bare"}, 3); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestDescriptorUnparseableKeys(t *testing.T) {
	c := &catalog.Criterion{
		ScoreDescriptors: map[string]string{
			"not-a-number": "junk",
			"2":            "ok",
		},
	}
	if got := Descriptor(c, 5); got != "ok" {
		t.Errorf("expected unparseable keys skipped, got %q", got)
	}
	if got := Descriptor(&catalog.Criterion{ScoreDescriptors: map[string]string{"x": "y"}}, 1); got != "" {
		t.Errorf("all-unparseable keys should yield empty string, got %q", got)
	}
}

func TestDescriptorFractionalKeys(t *testing.T) {
	c := &catalog.Criterion{
		ScoreDescriptors: map[string]string{
			"1.5": "low",
			"4.5": "high",
		},
	}
	if got := Descriptor(c, 2); got != "low" {
		t.Errorf("got %q, want low", got)
	}
	// Equidistant between 1.5 and 4.5: lower key wins.
	if got := Descriptor(c, 3); got != "low" {
		t.Errorf("tie: got %q, want low", got)
	}
}
