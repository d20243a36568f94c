// Package catalogcache keeps one in-memory snapshot of derived catalog
// entries per kind. Snapshots are immutable once published: a rebuild
// replaces the whole slice under the lock, so readers never observe a
// partially-populated catalog.
package catalogcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"listing-range-api/internal/matching"
	"listing-range-api/internal/model"
)

// Store loads persisted catalog entries. Implemented by
// repository.CatalogRepo.
type Store interface {
	ListByKind(ctx context.Context, kind model.Kind) ([]model.CatalogEntry, error)
}

type snapshot struct {
	entries []model.DerivedEntry
	builtAt time.Time
}

// Cache is an injectable per-kind snapshot cache. Construct one at startup
// and hand it to the analyzer; tests construct isolated instances with a
// controlled clock.
type Cache struct {
	store Store
	ttls  map[model.Kind]time.Duration
	now   func() time.Time
	log   *slog.Logger

	mu        sync.RWMutex
	snapshots map[model.Kind]*snapshot

	group singleflight.Group
}

// New builds a cache over store with per-kind TTLs.
func New(store Store, ttls map[model.Kind]time.Duration, log *slog.Logger) *Cache {
	return &Cache{
		store:     store,
		ttls:      ttls,
		now:       time.Now,
		log:       log,
		snapshots: make(map[model.Kind]*snapshot),
	}
}

// WithClock overrides the cache's clock. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the derived entries for kind, rebuilding from the store when
// the snapshot is missing, expired, or forceRefresh is set. Concurrent
// rebuilds of the same kind are collapsed into one store read.
func (c *Cache) Get(ctx context.Context, kind model.Kind, forceRefresh bool) ([]model.DerivedEntry, error) {
	if !forceRefresh {
		if entries, ok := c.fresh(kind); ok {
			return entries, nil
		}
	}

	v, err, _ := c.group.Do(string(kind), func() (any, error) {
		return c.rebuild(ctx, kind)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.DerivedEntry), nil
}

// Invalidate drops the snapshot for kind unconditionally. The catalog sync
// producer must call this after writing new entries; the cache is never
// told about writes automatically.
func (c *Cache) Invalidate(kind model.Kind) {
	c.mu.Lock()
	delete(c.snapshots, kind)
	c.mu.Unlock()
	c.log.Info("catalog cache invalidated", "kind", kind)
}

func (c *Cache) fresh(kind model.Kind) ([]model.DerivedEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.snapshots[kind]
	if !ok {
		return nil, false
	}
	if c.now().Sub(s.builtAt) >= c.ttl(kind) {
		return nil, false
	}
	return s.entries, true
}

func (c *Cache) rebuild(ctx context.Context, kind model.Kind) ([]model.DerivedEntry, error) {
	rows, err := c.store.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	entries := make([]model.DerivedEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, matching.Derive(row))
	}

	s := &snapshot{entries: entries, builtAt: c.now()}
	c.mu.Lock()
	c.snapshots[kind] = s
	c.mu.Unlock()

	c.log.Info("catalog cache rebuilt", "kind", kind, "entries", len(entries))
	return entries, nil
}

func (c *Cache) ttl(kind model.Kind) time.Duration {
	if ttl, ok := c.ttls[kind]; ok {
		return ttl
	}
	return 24 * time.Hour
}
