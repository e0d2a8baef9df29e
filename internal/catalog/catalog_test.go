package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"General Investor Engagement", "general-investor-engagement"},
		{"Already-Slugged", "already-slugged"},
		{"Tabs\tand  runs   of space", "tabs-and-runs-of-space"},
		{"Punctuation! (stripped)", "punctuation-stripped"},
		{"under_score kept", "under_score-kept"},
		{"MixedCASE", "mixedcase"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategorySortOrder(t *testing.T) {
	c := &Catalog{Categories: []Category{
		{Name: "Zebra", Slug: "zebra", Weight: 1, Profiles: []Profile{{Name: "P"}}},
		{Name: "Apple", Slug: "apple", Weight: 2, Profiles: []Profile{{Name: "P"}}},
		{Name: "Mango", Slug: "mango", Weight: 1, Profiles: []Profile{{Name: "P"}}},
	}}
	c.sortCategories()

	// Weight ascending first, then name ascending within equal weights.
	wantOrder := []string{"Mango", "Zebra", "Apple"}
	for i, want := range wantOrder {
		if c.Categories[i].Name != want {
			t.Errorf("position %d: got %s, want %s", i, c.Categories[i].Name, want)
		}
	}
	if c.Default().Name != "Mango" {
		t.Errorf("default = %s, want Mango", c.Default().Name)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Catalog {
		return &Catalog{Categories: []Category{
			{Name: "Investment", Slug: "investment", Profiles: []Profile{{Name: "General"}}},
		}}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid catalog rejected: %v", err)
	}

	t.Run("empty catalog", func(t *testing.T) {
		c := &Catalog{}
		if err := c.Validate(); err == nil {
			t.Error("expected error for empty catalog")
		}
	})

	t.Run("missing slug", func(t *testing.T) {
		c := valid()
		c.Categories[0].Slug = ""
		if err := c.Validate(); err == nil {
			t.Error("expected error for missing slug")
		}
	})

	t.Run("unsafe slug", func(t *testing.T) {
		c := valid()
		c.Categories[0].Slug = "Not Safe!"
		if err := c.Validate(); err == nil {
			t.Error("expected error for unsafe slug")
		}
	})

	t.Run("duplicate slug", func(t *testing.T) {
		c := valid()
		c.Categories = append(c.Categories, c.Categories[0])
		if err := c.Validate(); err == nil {
			t.Error("expected error for duplicate slug")
		}
	})

	t.Run("no profiles", func(t *testing.T) {
		c := valid()
		c.Categories[0].Profiles = nil
		if err := c.Validate(); err == nil {
			t.Error("expected error for category without profiles")
		}
	})

	t.Run("duplicate profile slug", func(t *testing.T) {
		c := valid()
		c.Categories[0].Profiles = []Profile{{Name: "Same Name"}, {Name: "same  name"}}
		if err := c.Validate(); err == nil {
			t.Error("expected error for colliding profile slugs")
		}
	})
}

const fixtureJSON = `{
  "categories": [
    {
      "name": "Health",
      "slug": "health",
      "weight": 2,
      "profiles": [{"name": "Patient Risk", "criteria": [{"metric": "age", "weight": 100}]}]
    },
    {
      "name": "Investment",
      "slug": "investment",
      "weight": 1,
      "savename": "investor",
      "profiles": [
        {
          "name": "General Investor Engagement",
          "criteria": [
            {"metric": "responsiveness", "weight": 60, "scoreDescriptors": {"1": "cold", "5": "eager"}},
            {"metric": "churn", "weight": 40, "invert": true}
          ]
        }
      ]
    }
  ]
}`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(fixtureJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(c.Categories))
	}
	// Sorted by weight: investment (1) before health (2).
	if c.Default().Slug != "investment" {
		t.Errorf("default = %s, want investment", c.Default().Slug)
	}
	prof, idx := c.Categories[0].ProfileBySlug("general-investor-engagement")
	if prof == nil || idx != 0 {
		t.Fatalf("profile lookup by derived slug failed")
	}
	if !prof.Criteria[1].Invert {
		t.Error("expected invert flag parsed")
	}
}

func TestLoadLegacyProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	legacy := `{"profiles": [{"name": "Only Profile", "criteria": [{"metric": "m", "weight": 100}]}]}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Categories) != 1 {
		t.Fatalf("expected 1 wrapped category, got %d", len(c.Categories))
	}
	if c.Categories[0].Slug != "general" {
		t.Errorf("wrapped slug = %s, want general", c.Categories[0].Slug)
	}
	if len(c.Categories[0].Profiles) != 1 {
		t.Errorf("expected wrapped profile carried over")
	}
}

func TestLoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureJSON))
	}))
	defer srv.Close()

	c, err := Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(c.Categories))
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		os.WriteFile(path, []byte("{not json"), 0o644)
		if _, err := Load(context.Background(), path); err == nil {
			t.Error("expected error for unparseable catalog")
		}
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		if _, err := Load(context.Background(), srv.URL); err == nil {
			t.Error("expected error for non-200 response")
		}
	})
}
