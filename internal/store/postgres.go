package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore backs shared deployments where several presentation clients
// read the same saved entities.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS reckon_entities (
			id UUID PRIMARY KEY,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE(category, name)
		);
		CREATE TABLE IF NOT EXISTS reckon_results (
			entity_id UUID NOT NULL REFERENCES reckon_entities(id) ON DELETE CASCADE,
			profile TEXT NOT NULL,
			scores JSONB NOT NULL,
			percentage TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (entity_id, profile)
		);
		CREATE TABLE IF NOT EXISTS reckon_prefs (
			id INT PRIMARY KEY CHECK (id = 1),
			visit_count INT NOT NULL DEFAULT 0,
			explainer_collapsed BOOLEAN,
			disclaimers JSONB NOT NULL DEFAULT '{}'
		);`)
	return err
}

func (s *PostgresStore) ListEntities(ctx context.Context, category string) (map[string]*Entity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, category, name, image, created_at, updated_at
		FROM reckon_entities WHERE category = $1
		ORDER BY name ASC`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*Entity)
	byID := make(map[uuid.UUID]*Entity)
	for rows.Next() {
		e := &Entity{Results: make(map[string]Result)}
		if err := rows.Scan(&e.ID, &e.Category, &e.Name, &e.Image, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out[e.Name] = e
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resRows, err := s.pool.Query(ctx, `
		SELECT r.entity_id, r.profile, r.scores, r.percentage
		FROM reckon_results r JOIN reckon_entities e ON e.id = r.entity_id
		WHERE e.category = $1`, category)
	if err != nil {
		return nil, err
	}
	defer resRows.Close()

	for resRows.Next() {
		var entityID uuid.UUID
		var profile, percentage string
		var scoresJSON []byte
		if err := resRows.Scan(&entityID, &profile, &scoresJSON, &percentage); err != nil {
			return nil, err
		}
		e, ok := byID[entityID]
		if !ok {
			continue
		}
		var scores []ScoreEntry
		if err := json.Unmarshal(scoresJSON, &scores); err != nil {
			continue
		}
		e.Results[profile] = Result{Scores: scores, PercentageLikelihood: percentage}
	}
	return out, resRows.Err()
}

func (s *PostgresStore) CreateEntity(ctx context.Context, category, name string) (*Entity, error) {
	e := &Entity{
		ID:       uuid.New(),
		Category: category,
		Name:     name,
		Results:  make(map[string]Result),
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reckon_entities (id, category, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (category, name) DO NOTHING
		RETURNING created_at, updated_at`,
		e.ID, category, name,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) DeleteEntity(ctx context.Context, category, name string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM reckon_entities WHERE category = $1 AND name = $2`, category, name)
	return err
}

func (s *PostgresStore) SaveResult(ctx context.Context, category, entity, profile string, res Result) error {
	id, err := s.ensureEntity(ctx, category, entity)
	if err != nil {
		return err
	}
	scoresJSON, err := json.Marshal(res.Scores)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO reckon_results (entity_id, profile, scores, percentage, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entity_id, profile) DO UPDATE SET
			scores = EXCLUDED.scores,
			percentage = EXCLUDED.percentage,
			updated_at = EXCLUDED.updated_at`,
		id, profile, scoresJSON, res.PercentageLikelihood, time.Now())
	return err
}

func (s *PostgresStore) LoadResult(ctx context.Context, category, entity, profile string) (*Result, error) {
	var scoresJSON []byte
	var percentage string
	err := s.pool.QueryRow(ctx, `
		SELECT r.scores, r.percentage
		FROM reckon_results r JOIN reckon_entities e ON e.id = r.entity_id
		WHERE e.category = $1 AND e.name = $2 AND r.profile = $3`,
		category, entity, profile,
	).Scan(&scoresJSON, &percentage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var scores []ScoreEntry
	if err := json.Unmarshal(scoresJSON, &scores); err != nil {
		return nil, ErrNotFound
	}
	return &Result{Scores: scores, PercentageLikelihood: percentage}, nil
}

func (s *PostgresStore) SetEntityImage(ctx context.Context, category, entity, dataURL string) error {
	id, err := s.ensureEntity(ctx, category, entity)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE reckon_entities SET image = $2, updated_at = now() WHERE id = $1`,
		id, dataURL)
	return err
}

func (s *PostgresStore) GetEntityImage(ctx context.Context, category, entity string) (string, error) {
	var image string
	err := s.pool.QueryRow(ctx,
		`SELECT image FROM reckon_entities WHERE category = $1 AND name = $2`,
		category, entity,
	).Scan(&image)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return image, nil
}

func (s *PostgresStore) GetPrefs(ctx context.Context) (*Prefs, error) {
	p := &Prefs{}
	var explainer *bool
	var disclaimersJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT visit_count, explainer_collapsed, disclaimers FROM reckon_prefs WHERE id = 1`,
	).Scan(&p.VisitCount, &explainer, &disclaimersJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	p.ExplainerCollapsed = explainer
	if disclaimersJSON != nil {
		_ = json.Unmarshal(disclaimersJSON, &p.DisclaimersCollapsed)
	}
	return p, nil
}

func (s *PostgresStore) IncrementVisits(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reckon_prefs (id, visit_count) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET visit_count = reckon_prefs.visit_count + 1
		RETURNING visit_count`,
	).Scan(&count)
	return count, err
}

func (s *PostgresStore) SetExplainerCollapsed(ctx context.Context, collapsed bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reckon_prefs (id, explainer_collapsed) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET explainer_collapsed = EXCLUDED.explainer_collapsed`,
		collapsed)
	return err
}

func (s *PostgresStore) SetDisclaimerCollapsed(ctx context.Context, key string, collapsed bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reckon_prefs (id, disclaimers) VALUES (1, jsonb_build_object($1::text, $2::boolean))
		ON CONFLICT (id) DO UPDATE SET disclaimers = reckon_prefs.disclaimers || jsonb_build_object($1::text, $2::boolean)`,
		key, collapsed)
	return err
}

func (s *PostgresStore) ensureEntity(ctx context.Context, category, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM reckon_entities WHERE category = $1 AND name = $2`,
		category, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}
	id = uuid.New()
	err = s.pool.QueryRow(ctx, `
		INSERT INTO reckon_entities (id, category, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (category, name) DO UPDATE SET updated_at = now()
		RETURNING id`,
		id, category, name,
	).Scan(&id)
	return id, err
}
