// Package domain holds the phone catalog tree and its traversal helpers.
// The catalog is an immutable snapshot: it is loaded once per request by the
// surrounding I/O layer and never mutated by readers.
package domain

// Question types supported by the trade-in questionnaire.
const (
	QuestionSingleChoice = "single_choice"
	QuestionMultiChoice  = "multi_choice"
)

// Catalog is the full brand → series → model tree of sellable phone
// configurations and their pricing.
type Catalog struct {
	Brands map[string]Brand `json:"brands" firestore:"brands"`
}

// Brand groups phone series under a manufacturer.
type Brand struct {
	LogoURL     string            `json:"logo_url" firestore:"logo_url"`
	PhoneSeries map[string]Series `json:"phone_series" firestore:"phone_series"`
}

// Series groups phone models under a product line.
type Series struct {
	DisplayName string                `json:"display_name" firestore:"display_name"`
	Phones      map[string]PhoneModel `json:"phones" firestore:"phones"`
}

// PhoneModel is one sellable phone with its variant price matrix and
// condition questionnaire.
type PhoneModel struct {
	DisplayName    string                        `json:"display_name" firestore:"display_name"`
	ImageURL       string                        `json:"image_url" firestore:"image_url"`
	VariantOptions VariantOptions                `json:"variant_options" firestore:"variant_options"`
	VariantPrices  map[string]map[string]float64 `json:"variant_prices" firestore:"variant_prices"`
	QuestionGroups map[string]QuestionGroup      `json:"question_groups" firestore:"question_groups"`
}

// VariantOptions lists the storage and RAM values a model is offered with.
// Not every storage×ram cross product is sold; VariantPrices is authoritative
// for which combinations exist.
type VariantOptions struct {
	Storage []string `json:"storage" firestore:"storage"`
	RAM     []string `json:"ram" firestore:"ram"`
}

// QuestionGroup is a named set of questionnaire questions.
type QuestionGroup struct {
	Questions []Question `json:"questions" firestore:"questions"`
}

// Question is one questionnaire entry whose answer adjusts the quote.
type Question struct {
	ID      string   `json:"id" firestore:"id"`
	Type    string   `json:"type" firestore:"type"`
	Label   string   `json:"label,omitempty" firestore:"label,omitempty"`
	Options []Option `json:"options" firestore:"options"`
}

// Option is a selectable answer carrying a signed price modifier.
// Negative modifiers reduce the quote (e.g. "Screen cracked": -2000).
type Option struct {
	Label         string  `json:"label" firestore:"label"`
	PriceModifier float64 `json:"price_modifier" firestore:"price_modifier"`
}

// HasStorage reports whether the storage value is an offered option.
func (m *PhoneModel) HasStorage(storage string) bool {
	for _, s := range m.VariantOptions.Storage {
		if s == storage {
			return true
		}
	}
	return false
}

// HasRAM reports whether the RAM value is an offered option.
func (m *PhoneModel) HasRAM(ram string) bool {
	for _, r := range m.VariantOptions.RAM {
		if r == ram {
			return true
		}
	}
	return false
}

// VariantPrice returns the base price for the (storage, ram) pair and
// whether that combination is actually sold.
func (m *PhoneModel) VariantPrice(storage, ram string) (float64, bool) {
	byRAM, ok := m.VariantPrices[storage]
	if !ok {
		return 0, false
	}
	price, ok := byRAM[ram]
	return price, ok
}

// QuestionsByID flattens every question group into a map keyed by question id.
func (m *PhoneModel) QuestionsByID() map[string]Question {
	flat := make(map[string]Question)
	for _, group := range m.QuestionGroups {
		for _, q := range group.Questions {
			flat[q.ID] = q
		}
	}
	return flat
}

// Option returns the option with the given label, if present.
func (q Question) Option(label string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Label == label {
			return opt, true
		}
	}
	return Option{}, false
}

// Stats returns the brand and model counts of the catalog.
func (c *Catalog) Stats() (brands, models int) {
	brands = len(c.Brands)
	for _, brand := range c.Brands {
		for _, series := range brand.PhoneSeries {
			models += len(series.Phones)
		}
	}
	return brands, models
}
