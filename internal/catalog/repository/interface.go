package repository

import (
	"context"

	"mobiletrade_backend/internal/catalog/domain"
)

// Store persists the catalog as a single versioned document.
type Store interface {
	// GetCatalog loads the current catalog snapshot. It returns an error
	// with code catalog_unavailable when none has been uploaded yet.
	GetCatalog(ctx context.Context) (*domain.Catalog, error)

	// ReplaceCatalog swaps the live catalog for a new one in a single write.
	ReplaceCatalog(ctx context.Context, cat *domain.Catalog) error
}

const catalogNotFoundMessage = "no catalog has been published"
