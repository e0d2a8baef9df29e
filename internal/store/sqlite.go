package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore is the default backend: a single local database file, the
// service-side analog of browser-local storage.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Pragmas go in the DSN so every pooled connection gets them; foreign_keys
	// in particular is per-connection and cascade deletes depend on it.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS entities (
  id TEXT PRIMARY KEY,
  category TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  UNIQUE(category, name)
);
CREATE TABLE IF NOT EXISTS results (
  entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
  profile TEXT NOT NULL,
  scores_json TEXT NOT NULL,
  percentage TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  PRIMARY KEY (entity_id, profile)
);
CREATE TABLE IF NOT EXISTS prefs (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  visit_count INTEGER NOT NULL DEFAULT 0,
  explainer_collapsed INTEGER,
  disclaimers_json TEXT NOT NULL DEFAULT '{}'
);
`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ListEntities(ctx context.Context, category string) (map[string]*Entity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, image, created_at, updated_at
		FROM entities WHERE category = ?
		ORDER BY name ASC`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*Entity)
	byID := make(map[string]*Entity)
	for rows.Next() {
		e := &Entity{Results: make(map[string]Result)}
		var id string
		if err := rows.Scan(&id, &e.Category, &e.Name, &e.Image, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			// Corrupt row: treat as absent.
			continue
		}
		e.ID = parsed
		out[e.Name] = e
		byID[id] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resRows, err := s.db.QueryContext(ctx, `
		SELECT r.entity_id, r.profile, r.scores_json, r.percentage
		FROM results r JOIN entities e ON e.id = r.entity_id
		WHERE e.category = ?`, category)
	if err != nil {
		return nil, err
	}
	defer resRows.Close()

	for resRows.Next() {
		var entityID, profile, scoresJSON, percentage string
		if err := resRows.Scan(&entityID, &profile, &scoresJSON, &percentage); err != nil {
			return nil, err
		}
		e, ok := byID[entityID]
		if !ok {
			continue
		}
		var scores []ScoreEntry
		if err := json.Unmarshal([]byte(scoresJSON), &scores); err != nil {
			// Unparseable saved scores are treated as never saved.
			continue
		}
		e.Results[profile] = Result{Scores: scores, PercentageLikelihood: percentage}
	}
	return out, resRows.Err()
}

func (s *SQLiteStore) CreateEntity(ctx context.Context, category, name string) (*Entity, error) {
	now := time.Now().UTC()
	e := &Entity{
		ID:        uuid.New(),
		Category:  category,
		Name:      name,
		Results:   make(map[string]Result),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entities (id, category, name, image, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?)`,
		e.ID.String(), category, name, now, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return e, nil
}

func (s *SQLiteStore) DeleteEntity(ctx context.Context, category, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM entities WHERE category = ? AND name = ?`, category, name)
	return err
}

func (s *SQLiteStore) SaveResult(ctx context.Context, category, entity, profile string, res Result) error {
	id, err := s.ensureEntity(ctx, category, entity)
	if err != nil {
		return err
	}
	scoresJSON, err := json.Marshal(res.Scores)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (entity_id, profile, scores_json, percentage, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_id, profile) DO UPDATE SET
			scores_json = excluded.scores_json,
			percentage = excluded.percentage,
			updated_at = excluded.updated_at`,
		id, profile, string(scoresJSON), res.PercentageLikelihood, time.Now().UTC())
	return err
}

func (s *SQLiteStore) LoadResult(ctx context.Context, category, entity, profile string) (*Result, error) {
	var scoresJSON, percentage string
	err := s.db.QueryRowContext(ctx, `
		SELECT r.scores_json, r.percentage
		FROM results r JOIN entities e ON e.id = r.entity_id
		WHERE e.category = ? AND e.name = ? AND r.profile = ?`,
		category, entity, profile,
	).Scan(&scoresJSON, &percentage)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var scores []ScoreEntry
	if err := json.Unmarshal([]byte(scoresJSON), &scores); err != nil {
		return nil, ErrNotFound
	}
	return &Result{Scores: scores, PercentageLikelihood: percentage}, nil
}

func (s *SQLiteStore) SetEntityImage(ctx context.Context, category, entity, dataURL string) error {
	id, err := s.ensureEntity(ctx, category, entity)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE entities SET image = ?, updated_at = ? WHERE id = ?`,
		dataURL, time.Now().UTC(), id)
	return err
}

func (s *SQLiteStore) GetEntityImage(ctx context.Context, category, entity string) (string, error) {
	var image string
	err := s.db.QueryRowContext(ctx,
		`SELECT image FROM entities WHERE category = ? AND name = ?`,
		category, entity,
	).Scan(&image)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return image, nil
}

func (s *SQLiteStore) GetPrefs(ctx context.Context) (*Prefs, error) {
	p := &Prefs{}
	var explainer sql.NullBool
	var disclaimersJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT visit_count, explainer_collapsed, disclaimers_json FROM prefs WHERE id = 1`,
	).Scan(&p.VisitCount, &explainer, &disclaimersJSON)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if explainer.Valid {
		p.ExplainerCollapsed = &explainer.Bool
	}
	if disclaimersJSON != "" {
		// Corrupt flags reset to empty rather than erroring.
		_ = json.Unmarshal([]byte(disclaimersJSON), &p.DisclaimersCollapsed)
	}
	return p, nil
}

func (s *SQLiteStore) IncrementVisits(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO prefs (id, visit_count) VALUES (1, 1)
		ON CONFLICT(id) DO UPDATE SET visit_count = prefs.visit_count + 1
		RETURNING visit_count`,
	).Scan(&count)
	return count, err
}

func (s *SQLiteStore) SetExplainerCollapsed(ctx context.Context, collapsed bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prefs (id, explainer_collapsed) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET explainer_collapsed = excluded.explainer_collapsed`,
		collapsed)
	return err
}

func (s *SQLiteStore) SetDisclaimerCollapsed(ctx context.Context, key string, collapsed bool) error {
	p, err := s.GetPrefs(ctx)
	if err != nil {
		return err
	}
	if p.DisclaimersCollapsed == nil {
		p.DisclaimersCollapsed = make(map[string]bool)
	}
	p.DisclaimersCollapsed[key] = collapsed
	disclaimersJSON, err := json.Marshal(p.DisclaimersCollapsed)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prefs (id, disclaimers_json) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET disclaimers_json = excluded.disclaimers_json`,
		string(disclaimersJSON))
	return err
}

// ensureEntity resolves an entity ID, creating the entity if absent so
// nested saves build intermediate levels on demand.
func (s *SQLiteStore) ensureEntity(ctx context.Context, category, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM entities WHERE category = ? AND name = ?`,
		category, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	e, err := s.CreateEntity(ctx, category, name)
	if err == ErrAlreadyExists {
		// Raced with another create; read again.
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM entities WHERE category = ? AND name = ?`,
			category, name,
		).Scan(&id)
		return id, err
	}
	if err != nil {
		return "", err
	}
	return e.ID.String(), nil
}
