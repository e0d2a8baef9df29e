package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. It backs tests and serves
// as the fallback when a persistent backend stops accepting writes.
type MemoryStore struct {
	mu       sync.Mutex
	entities map[string]map[string]*Entity // category -> name -> entity
	prefs    Prefs
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entities: make(map[string]map[string]*Entity)}
}

func (m *MemoryStore) ListEntities(_ context.Context, category string) (map[string]*Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*Entity, len(m.entities[category]))
	for name, e := range m.entities[category] {
		out[name] = copyEntity(e)
	}
	return out, nil
}

func (m *MemoryStore) CreateEntity(_ context.Context, category, name string) (*Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entities[category][name]; ok {
		return nil, ErrAlreadyExists
	}
	if m.entities[category] == nil {
		m.entities[category] = make(map[string]*Entity)
	}
	now := time.Now()
	e := &Entity{
		ID:        uuid.New(),
		Category:  category,
		Name:      name,
		Results:   make(map[string]Result),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.entities[category][name] = e
	return copyEntity(e), nil
}

func (m *MemoryStore) DeleteEntity(_ context.Context, category, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entities[category], name)
	return nil
}

func (m *MemoryStore) SaveResult(_ context.Context, category, entity, profile string, res Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.ensureEntity(category, entity)
	e.Results[profile] = res
	e.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) LoadResult(_ context.Context, category, entity, profile string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[category][entity]
	if !ok {
		return nil, ErrNotFound
	}
	res, ok := e.Results[profile]
	if !ok {
		return nil, ErrNotFound
	}
	out := res
	out.Scores = append([]ScoreEntry(nil), res.Scores...)
	return &out, nil
}

func (m *MemoryStore) SetEntityImage(_ context.Context, category, entity, dataURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.ensureEntity(category, entity)
	e.Image = dataURL
	e.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) GetEntityImage(_ context.Context, category, entity string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[category][entity]
	if !ok {
		return "", ErrNotFound
	}
	return e.Image, nil
}

func (m *MemoryStore) GetPrefs(_ context.Context) (*Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyPrefs(&m.prefs), nil
}

func (m *MemoryStore) IncrementVisits(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.VisitCount++
	return m.prefs.VisitCount, nil
}

func (m *MemoryStore) SetExplainerCollapsed(_ context.Context, collapsed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.ExplainerCollapsed = &collapsed
	return nil
}

func (m *MemoryStore) SetDisclaimerCollapsed(_ context.Context, key string, collapsed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs.DisclaimersCollapsed == nil {
		m.prefs.DisclaimersCollapsed = make(map[string]bool)
	}
	m.prefs.DisclaimersCollapsed[key] = collapsed
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// ensureEntity creates intermediate levels as needed. Callers hold the lock.
func (m *MemoryStore) ensureEntity(category, name string) *Entity {
	if m.entities[category] == nil {
		m.entities[category] = make(map[string]*Entity)
	}
	e, ok := m.entities[category][name]
	if !ok {
		now := time.Now()
		e = &Entity{
			ID:        uuid.New(),
			Category:  category,
			Name:      name,
			Results:   make(map[string]Result),
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.entities[category][name] = e
	}
	return e
}

func copyEntity(e *Entity) *Entity {
	out := *e
	out.Results = make(map[string]Result, len(e.Results))
	for k, v := range e.Results {
		v.Scores = append([]ScoreEntry(nil), v.Scores...)
		out.Results[k] = v
	}
	return &out
}

func copyPrefs(p *Prefs) *Prefs {
	out := Prefs{VisitCount: p.VisitCount}
	if p.ExplainerCollapsed != nil {
		v := *p.ExplainerCollapsed
		out.ExplainerCollapsed = &v
	}
	if p.DisclaimersCollapsed != nil {
		out.DisclaimersCollapsed = make(map[string]bool, len(p.DisclaimersCollapsed))
		for k, v := range p.DisclaimersCollapsed {
			out.DisclaimersCollapsed[k] = v
		}
	}
	return &out
}
