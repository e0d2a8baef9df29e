package store

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// GuardedStore makes persistence failures recoverable: writes that fail
// against the primary backend are logged and the store degrades to an
// in-memory mirror for the rest of the session, instead of surfacing errors
// to the user. Successful writes are mirrored so the fallback holds every
// record written this session; records that only ever lived in the primary
// are not recovered after degradation.
type GuardedStore struct {
	primary  Store
	fallback *MemoryStore
	logger   *slog.Logger
	degraded atomic.Bool
}

func Guard(primary Store, logger *slog.Logger) *GuardedStore {
	return &GuardedStore{
		primary:  primary,
		fallback: NewMemoryStore(),
		logger:   logger,
	}
}

// Degraded reports whether the store has fallen back to memory.
func (g *GuardedStore) Degraded() bool { return g.degraded.Load() }

func (g *GuardedStore) degrade(op string, err error) {
	if g.degraded.CompareAndSwap(false, true) {
		g.logger.Warn("store write failed, continuing with in-memory state only",
			"op", op, "error", err)
	}
}

func (g *GuardedStore) ListEntities(ctx context.Context, category string) (map[string]*Entity, error) {
	if g.degraded.Load() {
		return g.fallback.ListEntities(ctx, category)
	}
	out, err := g.primary.ListEntities(ctx, category)
	if err != nil {
		g.logger.Warn("store read failed, serving in-memory state", "op", "list_entities", "error", err)
		return g.fallback.ListEntities(ctx, category)
	}
	return out, nil
}

func (g *GuardedStore) CreateEntity(ctx context.Context, category, name string) (*Entity, error) {
	if g.degraded.Load() {
		return g.fallback.CreateEntity(ctx, category, name)
	}
	e, err := g.primary.CreateEntity(ctx, category, name)
	if err == ErrAlreadyExists {
		return nil, err
	}
	if err != nil {
		g.degrade("create_entity", err)
		return g.fallback.CreateEntity(ctx, category, name)
	}
	if _, mirrorErr := g.fallback.CreateEntity(ctx, category, name); mirrorErr != nil && mirrorErr != ErrAlreadyExists {
		g.logger.Warn("mirror write failed", "op", "create_entity", "error", mirrorErr)
	}
	return e, nil
}

func (g *GuardedStore) DeleteEntity(ctx context.Context, category, name string) error {
	_ = g.fallback.DeleteEntity(ctx, category, name)
	if g.degraded.Load() {
		return nil
	}
	if err := g.primary.DeleteEntity(ctx, category, name); err != nil {
		g.degrade("delete_entity", err)
	}
	return nil
}

func (g *GuardedStore) SaveResult(ctx context.Context, category, entity, profile string, res Result) error {
	_ = g.fallback.SaveResult(ctx, category, entity, profile, res)
	if g.degraded.Load() {
		return nil
	}
	if err := g.primary.SaveResult(ctx, category, entity, profile, res); err != nil {
		g.degrade("save_result", err)
	}
	return nil
}

func (g *GuardedStore) LoadResult(ctx context.Context, category, entity, profile string) (*Result, error) {
	if g.degraded.Load() {
		return g.fallback.LoadResult(ctx, category, entity, profile)
	}
	return g.primary.LoadResult(ctx, category, entity, profile)
}

func (g *GuardedStore) SetEntityImage(ctx context.Context, category, entity, dataURL string) error {
	_ = g.fallback.SetEntityImage(ctx, category, entity, dataURL)
	if g.degraded.Load() {
		return nil
	}
	if err := g.primary.SetEntityImage(ctx, category, entity, dataURL); err != nil {
		g.degrade("set_entity_image", err)
	}
	return nil
}

func (g *GuardedStore) GetEntityImage(ctx context.Context, category, entity string) (string, error) {
	if g.degraded.Load() {
		return g.fallback.GetEntityImage(ctx, category, entity)
	}
	return g.primary.GetEntityImage(ctx, category, entity)
}

func (g *GuardedStore) GetPrefs(ctx context.Context) (*Prefs, error) {
	if g.degraded.Load() {
		return g.fallback.GetPrefs(ctx)
	}
	return g.primary.GetPrefs(ctx)
}

func (g *GuardedStore) IncrementVisits(ctx context.Context) (int, error) {
	count, _ := g.fallback.IncrementVisits(ctx)
	if g.degraded.Load() {
		return count, nil
	}
	primaryCount, err := g.primary.IncrementVisits(ctx)
	if err != nil {
		g.degrade("increment_visits", err)
		return count, nil
	}
	return primaryCount, nil
}

func (g *GuardedStore) SetExplainerCollapsed(ctx context.Context, collapsed bool) error {
	_ = g.fallback.SetExplainerCollapsed(ctx, collapsed)
	if g.degraded.Load() {
		return nil
	}
	if err := g.primary.SetExplainerCollapsed(ctx, collapsed); err != nil {
		g.degrade("set_explainer_collapsed", err)
	}
	return nil
}

func (g *GuardedStore) SetDisclaimerCollapsed(ctx context.Context, key string, collapsed bool) error {
	_ = g.fallback.SetDisclaimerCollapsed(ctx, key, collapsed)
	if g.degraded.Load() {
		return nil
	}
	if err := g.primary.SetDisclaimerCollapsed(ctx, key, collapsed); err != nil {
		g.degrade("set_disclaimer_collapsed", err)
	}
	return nil
}

func (g *GuardedStore) Close() error {
	return g.primary.Close()
}
