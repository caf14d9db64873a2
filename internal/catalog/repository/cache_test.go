package repository

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"mobiletrade_backend/internal/catalog/domain"
)

type countingStore struct {
	catalog  *domain.Catalog
	gets     int
	replaces int
}

func (s *countingStore) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	s.gets++
	return s.catalog, nil
}

func (s *countingStore) ReplaceCatalog(ctx context.Context, cat *domain.Catalog) error {
	s.replaces++
	s.catalog = cat
	return nil
}

func newTestCache(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &countingStore{catalog: &domain.Catalog{
		Brands: map[string]domain.Brand{"apple": {LogoURL: "apple.png"}},
	}}
	log := slog.New(slog.DiscardHandler)
	return NewCachedStore(inner, rdb, 0, log), inner, mr
}

func TestCachedStoreReadThrough(t *testing.T) {
	cache, inner, _ := newTestCache(t)
	ctx := context.Background()

	cat, err := cache.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if _, ok := cat.Brands["apple"]; !ok {
		t.Fatal("first read did not return inner catalog")
	}
	if inner.gets != 1 {
		t.Fatalf("inner gets = %d, want 1", inner.gets)
	}

	// second read must come from the cache
	if _, err := cache.GetCatalog(ctx); err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if inner.gets != 1 {
		t.Errorf("inner gets after cached read = %d, want 1", inner.gets)
	}
}

func TestCachedStoreReplaceInvalidates(t *testing.T) {
	cache, inner, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.GetCatalog(ctx); err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if !mr.Exists(cacheKey) {
		t.Fatal("cache entry missing after read")
	}

	next := &domain.Catalog{Brands: map[string]domain.Brand{"samsung": {}}}
	if err := cache.ReplaceCatalog(ctx, next); err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}
	if inner.replaces != 1 {
		t.Fatalf("inner replaces = %d, want 1", inner.replaces)
	}
	if mr.Exists(cacheKey) {
		t.Fatal("cache entry still present after replace")
	}

	cat, err := cache.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if _, ok := cat.Brands["samsung"]; !ok {
		t.Error("read after replace returned stale catalog")
	}
}

func TestCachedStoreToleratesCorruptEntry(t *testing.T) {
	cache, inner, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set(cacheKey, "{not json")

	cat, err := cache.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if _, ok := cat.Brands["apple"]; !ok {
		t.Fatal("corrupt cache entry was not bypassed")
	}
	if inner.gets != 1 {
		t.Errorf("inner gets = %d, want 1", inner.gets)
	}
}
