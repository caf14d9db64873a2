// Package transport contains the request and response DTOs for the catalog module.
package transport

import (
	"time"

	"mobiletrade_backend/internal/catalog/domain"
)

// CatalogResponse wraps the full catalog tree for public consumption.
type CatalogResponse struct {
	Brands map[string]domain.Brand `json:"brands"`
}

// PhoneDetailsResponse describes one phone model resolved from the tree,
// including the path that located it.
type PhoneDetailsResponse struct {
	Brand             string                          `json:"brand"`
	BrandLogoURL      string                          `json:"brand_logo_url,omitempty"`
	PhoneSeries       string                          `json:"phone_series"`
	SeriesDisplayName string                          `json:"series_display_name,omitempty"`
	PhoneModel        string                          `json:"phone_model"`
	DisplayName       string                          `json:"display_name"`
	ImageURL          string                          `json:"image_url,omitempty"`
	VariantOptions    domain.VariantOptions           `json:"variant_options"`
	VariantPrices     map[string]map[string]float64   `json:"variant_prices"`
	QuestionGroups    map[string]domain.QuestionGroup `json:"question_groups"`
}

// ReplaceCatalogResponse summarizes a successful catalog swap.
type ReplaceCatalogResponse struct {
	Brands int `json:"brands"`
	Models int `json:"models"`
}

// PresignUploadRequest asks for a presigned PUT URL for a catalog image.
type PresignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"required,gt=0"`
	Folder      string `json:"folder" validate:"omitempty,max=128"`
}

// PresignUploadResponse carries the presigned PUT URL and the object key the
// client should store back into the catalog document.
type PresignUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	FileKey   string    `json:"file_key"`
	ExpiresAt time.Time `json:"expires_at"`
}
