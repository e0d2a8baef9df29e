package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// document accepts both catalog shapes: the categories[] tree and the legacy
// flat profiles[] array, which is wrapped into a single implicit category.
type document struct {
	Categories []Category `json:"categories"`
	Profiles   []Profile  `json:"profiles"`
}

const (
	legacyCategoryName = "General"
	legacyCategorySlug = "general"
)

// Load reads and validates the catalog from a file path or an http(s) URL.
// Categories come back sorted by (weight, name). A failure here is fatal to
// the session: there is no retry and nothing works without the catalog.
func Load(ctx context.Context, source string) (*Catalog, error) {
	data, err := fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	cat := &Catalog{Categories: doc.Categories}
	if len(cat.Categories) == 0 && len(doc.Profiles) > 0 {
		cat.Categories = []Category{{
			Name:     legacyCategoryName,
			Slug:     legacyCategorySlug,
			Profiles: doc.Profiles,
		}}
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	cat.sortCategories()
	return cat, nil
}

func fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return data, nil
}
