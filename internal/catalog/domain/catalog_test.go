package domain

import (
	"errors"
	"testing"

	"mobiletrade_backend/platform/apperr"
)

func testCatalog() *Catalog {
	return &Catalog{
		Brands: map[string]Brand{
			"apple": {
				LogoURL: "https://cdn.example.com/apple.png",
				PhoneSeries: map[string]Series{
					"iphone": {
						DisplayName: "iPhone",
						Phones: map[string]PhoneModel{
							"iphone-13": {
								DisplayName: "iPhone 13",
								VariantOptions: VariantOptions{
									Storage: []string{"128GB", "256GB"},
									RAM:     []string{"4GB"},
								},
								VariantPrices: map[string]map[string]float64{
									"128GB": {"4GB": 30000},
									"256GB": {"4GB": 34000},
								},
								QuestionGroups: map[string]QuestionGroup{
									"condition": {Questions: []Question{
										{
											ID:   "screen_condition",
											Type: QuestionSingleChoice,
											Options: []Option{
												{Label: "Flawless", PriceModifier: 0},
												{Label: "Cracked", PriceModifier: -5000},
											},
										},
										{
											ID:   "accessories",
											Type: QuestionMultiChoice,
											Options: []Option{
												{Label: "Charger", PriceModifier: 500},
												{Label: "Box", PriceModifier: 300},
											},
										},
									}},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestDescend(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		name     string
		brand    string
		series   string
		model    string
		wantCode string
	}{
		{name: "resolves existing model", brand: "apple", series: "iphone", model: "iphone-13"},
		{name: "unknown brand", brand: "nokia", series: "iphone", model: "iphone-13", wantCode: CodeBrandNotFound},
		{name: "unknown series", brand: "apple", series: "galaxy", model: "iphone-13", wantCode: CodeSeriesNotFound},
		{name: "unknown model", brand: "apple", series: "iphone", model: "iphone-99", wantCode: CodeModelNotFound},
		// brand check runs first even when series would also be wrong
		{name: "brand failure wins over series", brand: "nokia", series: "galaxy", model: "iphone-99", wantCode: CodeBrandNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := cat.Descend(tt.brand, tt.series, tt.model)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Descend() error = %v, want nil", err)
				}
				if model.DisplayName != "iPhone 13" {
					t.Errorf("DisplayName = %q, want %q", model.DisplayName, "iPhone 13")
				}
				return
			}
			var appErr *apperr.Error
			if !errors.As(err, &appErr) {
				t.Fatalf("Descend() error = %v, want *apperr.Error", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if appErr.Kind != apperr.KindNotFound {
				t.Errorf("kind = %v, want KindNotFound", appErr.Kind)
			}
		})
	}
}

func TestVariantPrice(t *testing.T) {
	cat := testCatalog()
	model, err := cat.Descend("apple", "iphone", "iphone-13")
	if err != nil {
		t.Fatalf("Descend() error = %v", err)
	}

	price, ok := model.VariantPrice("128GB", "4GB")
	if !ok || price != 30000 {
		t.Errorf("VariantPrice(128GB, 4GB) = %v, %v; want 30000, true", price, ok)
	}
	if _, ok := model.VariantPrice("512GB", "4GB"); ok {
		t.Error("VariantPrice(512GB, 4GB) = ok, want missing")
	}
	if _, ok := model.VariantPrice("128GB", "8GB"); ok {
		t.Error("VariantPrice(128GB, 8GB) = ok, want missing")
	}
}

func TestQuestionsByID(t *testing.T) {
	cat := testCatalog()
	model, _ := cat.Descend("apple", "iphone", "iphone-13")

	flat := model.QuestionsByID()
	if len(flat) != 2 {
		t.Fatalf("len(flat) = %d, want 2", len(flat))
	}
	q, ok := flat["screen_condition"]
	if !ok {
		t.Fatal("screen_condition missing from flattened questions")
	}
	opt, ok := q.Option("Cracked")
	if !ok || opt.PriceModifier != -5000 {
		t.Errorf("Option(Cracked) = %+v, %v; want modifier -5000", opt, ok)
	}
}

func TestBuildModelIndex(t *testing.T) {
	cat := testCatalog()
	idx := BuildModelIndex(cat)

	ref, ok := idx.Lookup("iphone-13")
	if !ok {
		t.Fatal("Lookup(iphone-13) = missing, want found")
	}
	if ref.Brand != "apple" || ref.Series != "iphone" {
		t.Errorf("ref = %+v, want apple/iphone", ref)
	}
	if _, ok := idx.Lookup("pixel-8"); ok {
		t.Error("Lookup(pixel-8) = found, want missing")
	}
}

func TestCatalogValidate(t *testing.T) {
	t.Run("accepts well formed catalog", func(t *testing.T) {
		if err := testCatalog().Validate(); err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("rejects empty catalog", func(t *testing.T) {
		cat := &Catalog{}
		if err := cat.Validate(); err == nil {
			t.Fatal("Validate() = nil, want error")
		}
	})

	t.Run("rejects price for unlisted storage", func(t *testing.T) {
		cat := testCatalog()
		brand := cat.Brands["apple"]
		series := brand.PhoneSeries["iphone"]
		model := series.Phones["iphone-13"]
		model.VariantPrices["1TB"] = map[string]float64{"4GB": 50000}
		series.Phones["iphone-13"] = model
		if err := cat.Validate(); err == nil {
			t.Fatal("Validate() = nil, want error for unlisted storage")
		}
	})

	t.Run("rejects unknown question type", func(t *testing.T) {
		cat := testCatalog()
		model := cat.Brands["apple"].PhoneSeries["iphone"].Phones["iphone-13"]
		group := model.QuestionGroups["condition"]
		group.Questions[0].Type = "free_text"
		model.QuestionGroups["condition"] = group
		cat.Brands["apple"].PhoneSeries["iphone"].Phones["iphone-13"] = model
		if err := cat.Validate(); err == nil {
			t.Fatal("Validate() = nil, want error for unknown question type")
		}
	})

	t.Run("rejects duplicate question ids across groups", func(t *testing.T) {
		cat := testCatalog()
		model := cat.Brands["apple"].PhoneSeries["iphone"].Phones["iphone-13"]
		model.QuestionGroups["extra"] = QuestionGroup{Questions: []Question{
			{ID: "screen_condition", Type: QuestionSingleChoice, Options: []Option{{Label: "Yes"}}},
		}}
		cat.Brands["apple"].PhoneSeries["iphone"].Phones["iphone-13"] = model
		if err := cat.Validate(); err == nil {
			t.Fatal("Validate() = nil, want error for duplicate question id")
		}
	})
}
