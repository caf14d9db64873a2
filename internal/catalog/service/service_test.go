package service

import (
	"context"
	"testing"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/internal/events"
	"mobiletrade_backend/platform/apperr"
	"mobiletrade_backend/platform/logger"
)

type fakeStore struct {
	catalog *domain.Catalog
}

func (s *fakeStore) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	if s.catalog == nil {
		return nil, apperr.NotFound("no catalog has been published").WithCode(domain.CodeCatalogUnavailable)
	}
	return s.catalog, nil
}

func (s *fakeStore) ReplaceCatalog(ctx context.Context, cat *domain.Catalog) error {
	s.catalog = cat
	return nil
}

func catalogWith(modelKey string) *domain.Catalog {
	return &domain.Catalog{
		Brands: map[string]domain.Brand{
			"apple": {
				LogoURL: "apple.png",
				PhoneSeries: map[string]domain.Series{
					"iphone": {
						DisplayName: "iPhone",
						Phones: map[string]domain.PhoneModel{
							modelKey: {
								DisplayName:    "iPhone 13",
								VariantOptions: domain.VariantOptions{Storage: []string{"128GB"}, RAM: []string{"4GB"}},
								VariantPrices:  map[string]map[string]float64{"128GB": {"4GB": 30000}},
							},
						},
					},
				},
			},
		},
	}
}

func newTestService(store *fakeStore) *Service {
	log := logger.New("test")
	return New(store, nil, "", events.NewInMemoryBus(log), log)
}

func TestPhoneDetails(t *testing.T) {
	svc := newTestService(&fakeStore{catalog: catalogWith("iphone-13")})

	details, err := svc.PhoneDetails(context.Background(), "apple", "iphone", "iphone-13")
	if err != nil {
		t.Fatalf("PhoneDetails() error = %v", err)
	}
	if details.DisplayName != "iPhone 13" {
		t.Errorf("DisplayName = %q, want %q", details.DisplayName, "iPhone 13")
	}
	if details.BrandLogoURL != "apple.png" {
		t.Errorf("BrandLogoURL = %q, want %q", details.BrandLogoURL, "apple.png")
	}
	if details.SeriesDisplayName != "iPhone" {
		t.Errorf("SeriesDisplayName = %q, want %q", details.SeriesDisplayName, "iPhone")
	}
}

func TestPhoneDetailsNoCatalog(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.PhoneDetails(context.Background(), "apple", "iphone", "iphone-13")
	if err == nil {
		t.Fatal("PhoneDetails() = nil error, want catalog_unavailable")
	}
	if code := apperr.GetCode(err); code != domain.CodeCatalogUnavailable {
		t.Errorf("code = %q, want %q", code, domain.CodeCatalogUnavailable)
	}
}

func TestResolveModelUsesIndexAcrossReplace(t *testing.T) {
	store := &fakeStore{catalog: catalogWith("iphone-13")}
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.ResolveModel(ctx, "iphone-13"); err != nil {
		t.Fatalf("ResolveModel() error = %v", err)
	}

	// replace the catalog with one that only knows a different model key
	if _, err := svc.Replace(ctx, catalogWith("iphone-14")); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if _, err := svc.ResolveModel(ctx, "iphone-14"); err != nil {
		t.Errorf("ResolveModel(iphone-14) after replace error = %v", err)
	}
	_, err := svc.ResolveModel(ctx, "iphone-13")
	if code := apperr.GetCode(err); code != domain.CodeModelNotFound {
		t.Errorf("ResolveModel(iphone-13) code = %q, want %q", code, domain.CodeModelNotFound)
	}
}

func TestReplaceRejectsInvalidCatalog(t *testing.T) {
	store := &fakeStore{catalog: catalogWith("iphone-13")}
	svc := newTestService(store)

	bad := catalogWith("iphone-13")
	model := bad.Brands["apple"].PhoneSeries["iphone"].Phones["iphone-13"]
	model.VariantPrices["999GB"] = map[string]float64{"4GB": 1}
	bad.Brands["apple"].PhoneSeries["iphone"].Phones["iphone-13"] = model

	if _, err := svc.Replace(context.Background(), bad); err == nil {
		t.Fatal("Replace() = nil error, want validation failure")
	}
	// the live catalog must be untouched
	if _, err := store.GetCatalog(context.Background()); err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if _, err := svc.PhoneDetails(context.Background(), "apple", "iphone", "iphone-13"); err != nil {
		t.Errorf("PhoneDetails() after rejected replace error = %v", err)
	}
}
