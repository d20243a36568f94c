package catalogcache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"listing-range-api/internal/model"
)

type fakeStore struct {
	entries map[model.Kind][]model.CatalogEntry
	calls   int
	err     error
}

func (f *fakeStore) ListByKind(ctx context.Context, kind model.Kind) ([]model.CatalogEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[kind], nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(store *fakeStore, ttl time.Duration, now *time.Time) *Cache {
	c := New(store, map[model.Kind]time.Duration{model.KindVehicles: ttl}, discard())
	return c.WithClock(func() time.Time { return *now })
}

func TestGetBuildsLazilyAndCaches(t *testing.T) {
	store := &fakeStore{entries: map[model.Kind][]model.CatalogEntry{
		model.KindVehicles: {{Kind: model.KindVehicles, FullName: "Honda Accord", Primary: "Honda", Secondary: "Accord"}},
	}}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCache(store, 10*24*time.Hour, &now)

	entries, err := c.Get(context.Background(), model.KindVehicles, false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(entries) != 1 || entries[0].FullNameNormalized != "hondaaccord" {
		t.Fatalf("unexpected derived entries: %+v", entries)
	}
	if store.calls != 1 {
		t.Fatalf("expected one store read, got %d", store.calls)
	}

	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("second get must hit the snapshot, store reads = %d", store.calls)
	}
}

func TestGetFreshnessBoundary(t *testing.T) {
	store := &fakeStore{entries: map[model.Kind][]model.CatalogEntry{}}
	ttl := 10 * 24 * time.Hour
	builtAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := builtAt
	c := newTestCache(store, ttl, &now)

	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected initial build")
	}

	now = builtAt.Add(ttl - time.Millisecond)
	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("get just before expiry must not rebuild, store reads = %d", store.calls)
	}

	now = builtAt.Add(ttl + time.Millisecond)
	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("get past expiry must rebuild, store reads = %d", store.calls)
	}
}

func TestForceRefreshBypassesSnapshot(t *testing.T) {
	store := &fakeStore{entries: map[model.Kind][]model.CatalogEntry{}}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	c := newTestCache(store, time.Hour, &now)

	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := c.Get(context.Background(), model.KindVehicles, true); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("force refresh must re-read the store, reads = %d", store.calls)
	}
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	store := &fakeStore{entries: map[model.Kind][]model.CatalogEntry{}}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	c := newTestCache(store, time.Hour, &now)

	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get: %v", err)
	}
	c.Invalidate(model.KindVehicles)
	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("invalidate must force the next get to rebuild, reads = %d", store.calls)
	}
}

func TestRebuildErrorLeavesNoSnapshot(t *testing.T) {
	store := &fakeStore{err: context.DeadlineExceeded}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	c := newTestCache(store, time.Hour, &now)

	if _, err := c.Get(context.Background(), model.KindVehicles, false); err == nil {
		t.Fatalf("expected rebuild error")
	}

	store.err = nil
	if _, err := c.Get(context.Background(), model.KindVehicles, false); err != nil {
		t.Fatalf("get after store recovery: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("failed rebuild must not be cached, reads = %d", store.calls)
	}
}
