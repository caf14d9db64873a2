// Package service implements catalog reads, admin catalog replacement, and
// image upload presigning.
package service

import (
	"context"
	"sync"

	"mobiletrade_backend/internal/adapters/storage"
	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/internal/catalog/repository"
	"mobiletrade_backend/internal/catalog/transport"
	"mobiletrade_backend/internal/events"
	"mobiletrade_backend/platform/apperr"
	"mobiletrade_backend/platform/logger"
)

// Service exposes catalog operations to handlers and to the trade-in module.
type Service struct {
	store       repository.Store
	objects     storage.StorageService
	imageBucket string
	bus         events.Bus
	log         *logger.Logger

	// indexed model lookup, rebuilt lazily after a catalog replace
	mu    sync.RWMutex
	index domain.ModelIndex
}

// New creates a catalog service. objects may be nil when object storage is
// not configured; presigning then returns an unavailable error.
func New(store repository.Store, objects storage.StorageService, imageBucket string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:       store,
		objects:     objects,
		imageBucket: imageBucket,
		bus:         bus,
		log:         log,
	}
}

// GetCatalog returns the full catalog tree.
func (s *Service) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	return s.store.GetCatalog(ctx)
}

// Replace validates and swaps the live catalog, then invalidates the model
// index and announces the change.
func (s *Service) Replace(ctx context.Context, cat *domain.Catalog) (*transport.ReplaceCatalogResponse, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceCatalog(ctx, cat); err != nil {
		s.log.StoreError("replace_catalog", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to store catalog", err)
	}

	s.mu.Lock()
	s.index = nil
	s.mu.Unlock()

	brands, models := cat.Stats()
	s.log.CatalogEvent("catalog_replaced", brands, models)
	s.bus.Publish(ctx, events.NewCatalogReplaced(brands, models))

	return &transport.ReplaceCatalogResponse{Brands: brands, Models: models}, nil
}

// PhoneDetails resolves one model by its brand/series/model path.
func (s *Service) PhoneDetails(ctx context.Context, brandName, seriesName, modelName string) (*transport.PhoneDetailsResponse, error) {
	cat, err := s.store.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	model, err := cat.Descend(brandName, seriesName, modelName)
	if err != nil {
		return nil, err
	}
	return buildDetails(cat, brandName, seriesName, modelName, model), nil
}

// ResolveModel locates a model by key alone, without the brand/series path.
func (s *Service) ResolveModel(ctx context.Context, modelKey string) (*transport.PhoneDetailsResponse, error) {
	cat, err := s.store.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	ref, ok := s.modelIndex(cat).Lookup(modelKey)
	if !ok {
		return nil, apperr.NotFound("model not found: " + modelKey).WithCode(domain.CodeModelNotFound)
	}
	model, err := cat.Descend(ref.Brand, ref.Series, ref.Model)
	if err != nil {
		return nil, err
	}
	return buildDetails(cat, ref.Brand, ref.Series, ref.Model, model), nil
}

// PresignImageUpload returns a presigned PUT URL for a catalog image.
func (s *Service) PresignImageUpload(ctx context.Context, req transport.PresignUploadRequest) (*transport.PresignUploadResponse, error) {
	if s.objects == nil {
		return nil, apperr.Unavailable("object storage is not configured")
	}

	folder := req.Folder
	if folder == "" {
		folder = "catalog"
	}
	presigned, err := s.objects.GenerateUploadURL(ctx, s.imageBucket, folder, req.FileName, req.ContentType, req.FileSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}

	return &transport.PresignUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// modelIndex returns the cached index, rebuilding it from the given catalog
// when a replace invalidated it.
func (s *Service) modelIndex(cat *domain.Catalog) domain.ModelIndex {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	if idx != nil {
		return idx
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		s.index = domain.BuildModelIndex(cat)
	}
	return s.index
}

func buildDetails(cat *domain.Catalog, brandName, seriesName, modelName string, model *domain.PhoneModel) *transport.PhoneDetailsResponse {
	resp := &transport.PhoneDetailsResponse{
		Brand:          brandName,
		PhoneSeries:    seriesName,
		PhoneModel:     modelName,
		DisplayName:    model.DisplayName,
		ImageURL:       model.ImageURL,
		VariantOptions: model.VariantOptions,
		VariantPrices:  model.VariantPrices,
		QuestionGroups: model.QuestionGroups,
	}
	if brand, ok := cat.Brands[brandName]; ok {
		resp.BrandLogoURL = brand.LogoURL
		if series, ok := brand.PhoneSeries[seriesName]; ok {
			resp.SeriesDisplayName = series.DisplayName
		}
	}
	return resp
}
