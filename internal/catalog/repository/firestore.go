package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/platform/apperr"
)

const (
	firestoreCatalogCollection = "catalog_documents"
	firestoreCatalogDoc        = "phone_catalog"
)

// FirestoreStore keeps the catalog as a single Firestore document.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed catalog store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

var _ Store = (*FirestoreStore)(nil)

// GetCatalog loads the current catalog snapshot.
func (s *FirestoreStore) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	snap, err := s.client.Collection(firestoreCatalogCollection).Doc(firestoreCatalogDoc).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperr.NotFound(catalogNotFoundMessage).WithCode(domain.CodeCatalogUnavailable)
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	var cat domain.Catalog
	if err := snap.DataTo(&cat); err != nil {
		return nil, fmt.Errorf("decode catalog document: %w", err)
	}
	return &cat, nil
}

// ReplaceCatalog swaps the live catalog in a single document write.
func (s *FirestoreStore) ReplaceCatalog(ctx context.Context, cat *domain.Catalog) error {
	if _, err := s.client.Collection(firestoreCatalogCollection).Doc(firestoreCatalogDoc).Set(ctx, cat); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
