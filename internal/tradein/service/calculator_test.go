package service

import (
	"testing"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/internal/tradein/transport"
	"mobiletrade_backend/platform/apperr"
)

func resolve(t *testing.T, req transport.QuoteRequest) *ResolvedQuote {
	t.Helper()
	resolved, err := ValidateQuote(quoteCatalog(), req)
	if err != nil {
		t.Fatalf("ValidateQuote() error = %v", err)
	}
	return resolved
}

func TestCalculateQuote(t *testing.T) {
	// 512GB/12GB base 70000, cracked screen -5000
	req := validQuoteRequest()
	req.QuestionAnswers = transport.AnswerList{
		{QuestionID: "screen_condition", Labels: []string{"Cracked"}},
	}

	result, err := CalculateQuote(resolve(t, req))
	if err != nil {
		t.Fatalf("CalculateQuote() error = %v", err)
	}
	if result.BasePrice != 70000 {
		t.Errorf("BasePrice = %v, want 70000", result.BasePrice)
	}
	if result.TotalAdjustment != -5000 {
		t.Errorf("TotalAdjustment = %v, want -5000", result.TotalAdjustment)
	}
	if result.FinalPrice != 65000 {
		t.Errorf("FinalPrice = %v, want 65000", result.FinalPrice)
	}
	if len(result.Adjustments) != 1 {
		t.Fatalf("len(Adjustments) = %d, want 1", len(result.Adjustments))
	}
	adj := result.Adjustments[0]
	if adj.QuestionID != "screen_condition" || adj.Answer != "Cracked" || adj.Modifier != -5000 {
		t.Errorf("adjustment = %+v", adj)
	}
}

func TestCalculateQuoteIsAdditive(t *testing.T) {
	req := validQuoteRequest()
	req.QuestionAnswers = transport.AnswerList{
		{QuestionID: "screen_condition", Labels: []string{"Minor scratches"}},
		{QuestionID: "battery_health", Labels: []string{"Below 80%"}},
		{QuestionID: "accessories", Labels: []string{"Charger", "Original box"}, Multi: true},
	}

	result, err := CalculateQuote(resolve(t, req))
	if err != nil {
		t.Fatalf("CalculateQuote() error = %v", err)
	}

	// FinalPrice must equal BasePrice plus the sum of every listed modifier
	sum := 0.0
	for _, adj := range result.Adjustments {
		sum += adj.Modifier
	}
	if result.TotalAdjustment != sum {
		t.Errorf("TotalAdjustment = %v, sum of adjustments = %v", result.TotalAdjustment, sum)
	}
	if result.FinalPrice != result.BasePrice+result.TotalAdjustment {
		t.Errorf("FinalPrice = %v, want %v", result.FinalPrice, result.BasePrice+result.TotalAdjustment)
	}
	if result.TotalAdjustment != -1500-3000+500+300 {
		t.Errorf("TotalAdjustment = %v, want -3700", result.TotalAdjustment)
	}
}

func TestCalculateQuoteOrdersAdjustmentsByEncounter(t *testing.T) {
	req := validQuoteRequest()
	req.QuestionAnswers = transport.AnswerList{
		{QuestionID: "accessories", Labels: []string{"Original box", "Charger"}, Multi: true},
		{QuestionID: "screen_condition", Labels: []string{"Flawless"}},
	}

	result, err := CalculateQuote(resolve(t, req))
	if err != nil {
		t.Fatalf("CalculateQuote() error = %v", err)
	}

	want := []string{"Original box", "Charger", "Flawless"}
	if len(result.Adjustments) != len(want) {
		t.Fatalf("len(Adjustments) = %d, want %d", len(result.Adjustments), len(want))
	}
	for i, answer := range want {
		if result.Adjustments[i].Answer != answer {
			t.Errorf("Adjustments[%d].Answer = %q, want %q", i, result.Adjustments[i].Answer, answer)
		}
	}
}

func TestCalculateQuoteCanGoNegative(t *testing.T) {
	// a cheap variant with heavy damage quotes below zero; the sum is not clamped
	req := validQuoteRequest()
	req.SelectedVariant = transport.VariantSelection{Storage: strptr("128GB"), RAM: strptr("8GB")}
	resolved := resolve(t, req)
	resolved.Model.QuestionGroups["condition"].Questions[0].Options[2].PriceModifier = -50000
	resolved.Answers = []ResolvedAnswer{{
		Question: resolved.Model.QuestionGroups["condition"].Questions[0],
		Labels:   []string{"Cracked"},
	}}

	result, err := CalculateQuote(resolved)
	if err != nil {
		t.Fatalf("CalculateQuote() error = %v", err)
	}
	if result.FinalPrice != 45000-50000 {
		t.Errorf("FinalPrice = %v, want -5000", result.FinalPrice)
	}
}

func TestCalculateQuoteNoAnswers(t *testing.T) {
	req := validQuoteRequest()
	req.QuestionAnswers = nil

	result, err := CalculateQuote(resolve(t, req))
	if err != nil {
		t.Fatalf("CalculateQuote() error = %v", err)
	}
	if result.FinalPrice != result.BasePrice {
		t.Errorf("FinalPrice = %v, want base price %v", result.FinalPrice, result.BasePrice)
	}
	if len(result.Adjustments) != 0 {
		t.Errorf("len(Adjustments) = %d, want 0", len(result.Adjustments))
	}
}

func TestCalculateQuoteMissingModifierFailsLoudly(t *testing.T) {
	resolved := resolve(t, validQuoteRequest())
	// simulate a resolved answer whose option vanished from the catalog
	resolved.Answers = []ResolvedAnswer{{
		Question: domain.Question{ID: "screen_condition", Type: domain.QuestionSingleChoice},
		Labels:   []string{"Cracked"},
	}}

	_, err := CalculateQuote(resolved)
	if err == nil {
		t.Fatal("CalculateQuote() = nil error, want internal failure")
	}
	if kind := apperr.GetKind(err); kind != apperr.KindInternal {
		t.Errorf("kind = %v, want KindInternal", kind)
	}
}
