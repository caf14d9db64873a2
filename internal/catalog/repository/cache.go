package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"mobiletrade_backend/internal/catalog/domain"
)

const cacheKey = "catalog:snapshot"

// CachedStore is a read-through Redis cache in front of another Store.
// Reads serve the cached JSON snapshot when present; a replace writes
// through to the inner store and drops the cached copy so the next read
// repopulates it.
type CachedStore struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedStore wraps a Store with a Redis snapshot cache.
func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

var _ Store = (*CachedStore)(nil)

// GetCatalog returns the cached snapshot, falling back to the inner store.
// Cache failures are logged and degrade to the inner store rather than
// failing the read.
func (s *CachedStore) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	raw, err := s.rdb.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var cat domain.Catalog
		if err := json.Unmarshal(raw, &cat); err == nil {
			return &cat, nil
		}
		s.log.Warn("discarding corrupt catalog cache entry", "error", err)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn("catalog cache read failed", "error", err)
	}

	cat, err := s.inner.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(cat); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
			s.log.Warn("catalog cache write failed", "error", err)
		}
	}
	return cat, nil
}

// ReplaceCatalog writes through to the inner store and invalidates the cache.
func (s *CachedStore) ReplaceCatalog(ctx context.Context, cat *domain.Catalog) error {
	if err := s.inner.ReplaceCatalog(ctx, cat); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}
