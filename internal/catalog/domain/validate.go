package domain

import (
	"fmt"

	"mobiletrade_backend/platform/apperr"
)

// Validate checks the structural integrity of an uploaded catalog before it
// replaces the live one. It rejects price matrices that reference unknown
// variant values and questionnaires with malformed questions, since those
// would surface as quote failures later.
func (c *Catalog) Validate() error {
	if len(c.Brands) == 0 {
		return apperr.Validation("catalog must contain at least one brand")
	}
	for brandName, brand := range c.Brands {
		for seriesName, series := range brand.PhoneSeries {
			for modelName, model := range series.Phones {
				if err := validateModel(model); err != nil {
					return apperr.Validation(fmt.Sprintf("%s / %s / %s: %v", brandName, seriesName, modelName, err))
				}
			}
		}
	}
	return nil
}

func validateModel(m PhoneModel) error {
	if len(m.VariantPrices) == 0 {
		return fmt.Errorf("no variant prices")
	}
	storageSet := toSet(m.VariantOptions.Storage)
	ramSet := toSet(m.VariantOptions.RAM)
	for storage, byRAM := range m.VariantPrices {
		if !storageSet[storage] {
			return fmt.Errorf("variant_prices references storage %q not listed in variant_options", storage)
		}
		for ram, price := range byRAM {
			if !ramSet[ram] {
				return fmt.Errorf("variant_prices references ram %q not listed in variant_options", ram)
			}
			if price < 0 {
				return fmt.Errorf("negative base price for %s/%s", storage, ram)
			}
		}
	}
	seen := make(map[string]bool)
	for groupName, group := range m.QuestionGroups {
		for _, q := range group.Questions {
			if q.ID == "" {
				return fmt.Errorf("group %q contains a question without an id", groupName)
			}
			if seen[q.ID] {
				return fmt.Errorf("duplicate question id %q", q.ID)
			}
			seen[q.ID] = true
			if q.Type != QuestionSingleChoice && q.Type != QuestionMultiChoice {
				return fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
			}
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q has no options", q.ID)
			}
			labels := make(map[string]bool)
			for _, opt := range q.Options {
				if opt.Label == "" {
					return fmt.Errorf("question %q has an option without a label", q.ID)
				}
				if labels[opt.Label] {
					return fmt.Errorf("question %q has duplicate option %q", q.ID, opt.Label)
				}
				labels[opt.Label] = true
			}
		}
	}
	return nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
