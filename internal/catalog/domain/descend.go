package domain

import (
	"sort"

	"mobiletrade_backend/platform/apperr"
)

// Wire-stable error codes for catalog traversal. Clients branch on these.
const (
	CodeCatalogUnavailable = "catalog_unavailable"
	CodeBrandNotFound      = "brand_not_found"
	CodeSeriesNotFound     = "series_not_found"
	CodeModelNotFound      = "model_not_found"
)

// Descend resolves brand → series → model in the catalog tree. The first
// missing level wins: later levels are not inspected once one fails.
func (c *Catalog) Descend(brandName, seriesName, modelName string) (*PhoneModel, error) {
	brand, ok := c.Brands[brandName]
	if !ok {
		return nil, apperr.NotFound("brand not found: " + brandName).WithCode(CodeBrandNotFound)
	}
	series, ok := brand.PhoneSeries[seriesName]
	if !ok {
		return nil, apperr.NotFound("series not found: " + seriesName).WithCode(CodeSeriesNotFound)
	}
	model, ok := series.Phones[modelName]
	if !ok {
		return nil, apperr.NotFound("model not found: " + modelName).WithCode(CodeModelNotFound)
	}
	return &model, nil
}

// ModelRef locates a phone model inside the catalog tree.
type ModelRef struct {
	Brand  string
	Series string
	Model  string
}

// ModelIndex maps model keys to their position in the tree, so a model can
// be resolved without scanning every brand and series per lookup.
type ModelIndex map[string]ModelRef

// BuildModelIndex walks the catalog once and indexes every model key.
// Brands and series are visited in sorted order, so on duplicate model keys
// the first occurrence deterministically wins.
func BuildModelIndex(c *Catalog) ModelIndex {
	idx := make(ModelIndex)
	for _, brandName := range sortedKeys(c.Brands) {
		brand := c.Brands[brandName]
		for _, seriesName := range sortedKeys(brand.PhoneSeries) {
			for modelName := range brand.PhoneSeries[seriesName].Phones {
				if _, exists := idx[modelName]; exists {
					continue
				}
				idx[modelName] = ModelRef{Brand: brandName, Series: seriesName, Model: modelName}
			}
		}
	}
	return idx
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the tree position of a model key.
func (idx ModelIndex) Lookup(modelKey string) (ModelRef, bool) {
	ref, ok := idx[modelKey]
	return ref, ok
}
