package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyExists signals a duplicate entity name within a category.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrNotFound signals a missing entity or saved result. Callers treat a
	// missing result as "reset to defaults": score 1 everywhere, 0% total.
	ErrNotFound = errors.New("not found")
)

// ScoreEntry is one saved per-criterion score.
type ScoreEntry struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Index  int     `json:"index"`
}

// Result is a saved evaluation for one (entity, profile) pair. Saves
// overwrite; no history is retained.
type Result struct {
	Scores               []ScoreEntry `json:"scores"`
	PercentageLikelihood string       `json:"percentageLikelihood"`
}

// Entity is a named assessment subject. Names are case-sensitive and unique
// within one category's namespace; the same name in another category is an
// unrelated entity. The image is a data URL attached at the entity level,
// shared across all of the entity's profile results.
type Entity struct {
	ID        uuid.UUID         `json:"id"`
	Category  string            `json:"category"`
	Name      string            `json:"name"`
	Image     string            `json:"image,omitempty"`
	Results   map[string]Result `json:"results,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Prefs are process-wide UI flags, independent of any entity.
type Prefs struct {
	VisitCount int `json:"visit_count"`
	// ExplainerCollapsed is tri-state: nil means never touched.
	ExplainerCollapsed *bool `json:"explainer_collapsed,omitempty"`
	// DisclaimersCollapsed is keyed by "{categorySlug}/{profileSlug}".
	DisclaimersCollapsed map[string]bool `json:"disclaimers_collapsed,omitempty"`
}

// DisclaimerKey builds the collapse-flag key for a (category, profile) pair.
func DisclaimerKey(categorySlug, profileSlug string) string {
	return categorySlug + "/" + profileSlug
}

// Store is the persistence layer: entities partitioned by category, results
// nested under (entity, profile), and the process-wide UI preferences.
// All persisted values round-trip through a text serialisation; a corrupt
// record is treated as absent, never as an error.
type Store interface {
	// ListEntities returns all saved entities for a category, keyed by name.
	// It never fails on corrupt data: unreadable records come back empty.
	ListEntities(ctx context.Context, category string) (map[string]*Entity, error)
	// CreateEntity creates an empty record, or ErrAlreadyExists.
	CreateEntity(ctx context.Context, category, name string) (*Entity, error)
	// DeleteEntity removes an entity and its results. Idempotent.
	DeleteEntity(ctx context.Context, category, name string) error

	// SaveResult upserts the nested (category, entity, profile) path,
	// creating intermediate levels as needed.
	SaveResult(ctx context.Context, category, entity, profile string, res Result) error
	// LoadResult returns the saved result or ErrNotFound.
	LoadResult(ctx context.Context, category, entity, profile string) (*Result, error)

	SetEntityImage(ctx context.Context, category, entity, dataURL string) error
	GetEntityImage(ctx context.Context, category, entity string) (string, error)

	GetPrefs(ctx context.Context) (*Prefs, error)
	IncrementVisits(ctx context.Context) (int, error)
	SetExplainerCollapsed(ctx context.Context, collapsed bool) error
	SetDisclaimerCollapsed(ctx context.Context, key string, collapsed bool) error

	Close() error
}
