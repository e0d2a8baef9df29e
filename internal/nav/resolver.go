package nav

import (
	"math/rand/v2"
	"strings"

	"github.com/likelyhq/reckon/internal/catalog"
)

// HistoryMode tells the presentation layer how to sync the address bar:
// push a new history entry for user-driven navigation, replace the current
// one for implicit redirects (defaults and not-found fallbacks).
type HistoryMode string

const (
	HistoryPush    HistoryMode = "push"
	HistoryReplace HistoryMode = "replace"
)

// Selection is a resolved (category, profile) pair plus everything the
// presentation layer needs to sync the address bar and document title.
type Selection struct {
	CategoryIndex int               `json:"category_index"`
	ProfileIndex  int               `json:"profile_index"`
	Category      *catalog.Category `json:"category"`
	Profile       *catalog.Profile  `json:"profile"`
	// Path is the canonical /{categorySlug}/{profileSlug} for the selection.
	Path    string      `json:"path"`
	Title   string      `json:"title"`
	History HistoryMode `json:"history"`
	// NotFound is set when the requested path did not match and the
	// selection is a fallback. The caller notifies the user, then proceeds.
	NotFound bool `json:"not_found,omitempty"`
}

// Resolver maps URL paths to catalog selections. It is headless: the HTTP
// layer and browser history stay outside so resolution is testable on its own.
type Resolver struct {
	catalog *catalog.Catalog
	intN    func(n int) int
}

// NewResolver creates a Resolver over a loaded catalog. intN supplies the
// random source for /random; nil uses the default shared source.
func NewResolver(c *catalog.Catalog, intN func(n int) int) *Resolver {
	if intN == nil {
		intN = rand.IntN
	}
	return &Resolver{catalog: c, intN: intN}
}

// Resolve maps a URL path to a selection. Every path resolves to something:
// unknown slugs signal NotFound on the fallback selection rather than failing.
func (r *Resolver) Resolve(path string) Selection {
	segments := splitPath(path)

	switch len(segments) {
	case 0:
		return r.selection(0, 0, HistoryReplace, false)
	case 1:
		if segments[0] == "random" {
			return r.Random()
		}
		if _, idx := r.catalog.BySlug(segments[0]); idx >= 0 {
			// Selecting a category cascades into its first profile.
			return r.selection(idx, 0, HistoryPush, false)
		}
		return r.selection(0, 0, HistoryReplace, true)
	case 2:
		cat, catIdx := r.catalog.BySlug(segments[0])
		if catIdx < 0 {
			return r.selection(0, 0, HistoryReplace, true)
		}
		if _, profIdx := cat.ProfileBySlug(segments[1]); profIdx >= 0 {
			return r.selection(catIdx, profIdx, HistoryPush, false)
		}
		return r.selection(catIdx, 0, HistoryReplace, true)
	default:
		return r.selection(0, 0, HistoryReplace, true)
	}
}

// Random picks a uniformly random category and, within it, a uniformly random
// profile. The result is push-mode with concrete slugs so a reload or back
// navigation lands on the chosen pair instead of re-randomising.
func (r *Resolver) Random() Selection {
	catIdx := r.intN(len(r.catalog.Categories))
	profIdx := r.intN(len(r.catalog.Categories[catIdx].Profiles))
	return r.selection(catIdx, profIdx, HistoryPush, false)
}

func (r *Resolver) selection(catIdx, profIdx int, history HistoryMode, notFound bool) Selection {
	cat := &r.catalog.Categories[catIdx]
	prof := &cat.Profiles[profIdx]
	return Selection{
		CategoryIndex: catIdx,
		ProfileIndex:  profIdx,
		Category:      cat,
		Profile:       prof,
		Path:          "/" + cat.Slug + "/" + prof.Slug(),
		Title:         cat.Name + " - " + prof.Name,
		History:       history,
		NotFound:      notFound,
	}
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
