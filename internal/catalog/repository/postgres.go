package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/platform/apperr"
)

// catalogKey identifies the single live catalog row. The table is keyed so
// a future multi-catalog setup (e.g. per region) stays a one-line change.
const catalogKey = "phone_catalog"

// PostgresStore keeps the catalog as one JSONB document.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed catalog store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

// GetCatalog loads the current catalog snapshot.
func (s *PostgresStore) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	query := `SELECT data FROM catalog_documents WHERE key = $1`

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, catalogKey).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(catalogNotFoundMessage).WithCode(domain.CodeCatalogUnavailable)
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	var cat domain.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog document: %w", err)
	}
	return &cat, nil
}

// ReplaceCatalog swaps the live catalog in a single upsert.
func (s *PostgresStore) ReplaceCatalog(ctx context.Context, cat *domain.Catalog) error {
	raw, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encode catalog document: %w", err)
	}

	query := `
		INSERT INTO catalog_documents (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, catalogKey, raw); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
