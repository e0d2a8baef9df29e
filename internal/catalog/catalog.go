package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Criterion is a single scored metric within a profile.
type Criterion struct {
	Metric           string            `json:"metric"`
	Description      string            `json:"description,omitempty"`
	Weight           float64           `json:"weight"`
	Icon             string            `json:"icon,omitempty"`
	Invert           bool              `json:"invert,omitempty"`
	ScoreDescriptors map[string]string `json:"scoreDescriptors,omitempty"`
}

// Profile is a named set of weighted criteria. Profiles are read-only after load.
type Profile struct {
	Name            string      `json:"name"`
	Icon            string      `json:"icon,omitempty"`
	Description     string      `json:"description,omitempty"`
	LongDescription string      `json:"longdescription,omitempty"`
	Criteria        []Criterion `json:"criteria"`
}

// Slug returns the URL-safe identifier derived from the profile name.
func (p *Profile) Slug() string {
	return Slugify(p.Name)
}

type DisclaimerLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type Disclaimer struct {
	Heading   string           `json:"heading,omitempty"`
	Text      string           `json:"text,omitempty"`
	DotPoints []string         `json:"dotpoints,omitempty"`
	Links     []DisclaimerLink `json:"links,omitempty"`
	Footer    string           `json:"footer,omitempty"`
}

// Category groups profiles. Weight is a sort order: lower weight sorts first.
type Category struct {
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Weight          int         `json:"weight"`
	Description     string      `json:"description,omitempty"`
	LongDescription string      `json:"longdescription,omitempty"`
	Icon            string      `json:"icon,omitempty"`
	SaveName        string      `json:"savename,omitempty"`
	Disclaimer      *Disclaimer `json:"disclaimer,omitempty"`
	Profiles        []Profile   `json:"profiles"`
}

// ProfileBySlug returns the profile whose derived slug matches, or nil.
func (c *Category) ProfileBySlug(slug string) (*Profile, int) {
	for i := range c.Profiles {
		if c.Profiles[i].Slug() == slug {
			return &c.Profiles[i], i
		}
	}
	return nil, -1
}

// Catalog is the full category/profile/criterion tree. Categories are kept
// sorted by (weight ascending, name ascending); the first is the default.
type Catalog struct {
	Categories []Category `json:"categories"`
}

// Default returns the default category: lowest weight, ties broken by name.
func (c *Catalog) Default() *Category {
	if len(c.Categories) == 0 {
		return nil
	}
	return &c.Categories[0]
}

// BySlug returns the category with the given authored slug, or nil.
func (c *Catalog) BySlug(slug string) (*Category, int) {
	for i := range c.Categories {
		if c.Categories[i].Slug == slug {
			return &c.Categories[i], i
		}
	}
	return nil, -1
}

func (c *Catalog) sortCategories() {
	sort.SliceStable(c.Categories, func(i, j int) bool {
		a, b := &c.Categories[i], &c.Categories[j]
		if a.Weight != b.Weight {
			return a.Weight < b.Weight
		}
		return a.Name < b.Name
	})
}

// Validate checks the invariants the rest of the system relies on: unique
// URL-safe category slugs and at least one profile per category.
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog has no categories")
	}
	seen := make(map[string]bool, len(c.Categories))
	for i := range c.Categories {
		cat := &c.Categories[i]
		if cat.Slug == "" {
			return fmt.Errorf("category %q: missing slug", cat.Name)
		}
		if cat.Slug != Slugify(cat.Slug) {
			return fmt.Errorf("category %q: slug %q is not URL-safe", cat.Name, cat.Slug)
		}
		if seen[cat.Slug] {
			return fmt.Errorf("duplicate category slug %q", cat.Slug)
		}
		seen[cat.Slug] = true
		if len(cat.Profiles) == 0 {
			return fmt.Errorf("category %q: no profiles", cat.Name)
		}
		profSeen := make(map[string]bool, len(cat.Profiles))
		for j := range cat.Profiles {
			slug := cat.Profiles[j].Slug()
			if slug == "" {
				return fmt.Errorf("category %q: profile %q derives an empty slug", cat.Name, cat.Profiles[j].Name)
			}
			if profSeen[slug] {
				return fmt.Errorf("category %q: duplicate profile slug %q", cat.Name, slug)
			}
			profSeen[slug] = true
		}
	}
	return nil
}

// Slugify derives a URL-safe identifier from a display name: lower-case,
// whitespace runs collapsed to single hyphens, every other character outside
// [a-z0-9-_] stripped.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	inSpace := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v':
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
			inSpace = false
		default:
			inSpace = false
		}
	}
	return b.String()
}
