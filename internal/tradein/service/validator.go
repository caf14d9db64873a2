package service

import (
	"fmt"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/internal/tradein/transport"
	"mobiletrade_backend/platform/apperr"
)

// Wire-stable error codes for quote validation. Clients branch on these.
const (
	CodeMissingVariantField            = "missing_variant_field"
	CodeInvalidStorage                 = "invalid_storage"
	CodeInvalidRAM                     = "invalid_ram"
	CodeVariantCombinationUnavailable  = "variant_combination_unavailable"
	CodeUnknownQuestion                = "unknown_question"
	CodeUnknownAnswerOption            = "unknown_answer_option"
	CodeMultipleAnswersForSingleChoice = "multiple_answers_for_single_choice"
	CodeListingPersistenceFailed       = "listing_persistence_failed"
)

// ResolvedAnswer pairs one catalog question with the labels the client
// selected for it.
type ResolvedAnswer struct {
	Question domain.Question
	Labels   []string
}

// ResolvedQuote is the outcome of a successful validation: every reference
// in the request resolved against the catalog, with answers kept in the
// order the client supplied them.
type ResolvedQuote struct {
	Model   *domain.PhoneModel
	Storage string
	RAM     string
	Answers []ResolvedAnswer
}

// ValidateQuote checks a quote request against the catalog. Checks run in a
// fixed sequence: brand, series, model, storage, ram, variant pair, then
// each answer in client order. The first failure wins and later levels are
// never inspected.
func ValidateQuote(cat *domain.Catalog, req transport.QuoteRequest) (*ResolvedQuote, error) {
	model, err := cat.Descend(req.Brand, req.PhoneSeries, req.PhoneModel)
	if err != nil {
		return nil, err
	}

	if req.SelectedVariant.Storage == nil {
		return nil, apperr.BadRequest("selected_variant is missing the storage field").WithCode(CodeMissingVariantField)
	}
	storage := *req.SelectedVariant.Storage
	if !model.HasStorage(storage) {
		return nil, apperr.Validation(fmt.Sprintf("storage %q is not offered for this model", storage)).WithCode(CodeInvalidStorage)
	}

	if req.SelectedVariant.RAM == nil {
		return nil, apperr.BadRequest("selected_variant is missing the ram field").WithCode(CodeMissingVariantField)
	}
	ram := *req.SelectedVariant.RAM
	if !model.HasRAM(ram) {
		return nil, apperr.Validation(fmt.Sprintf("ram %q is not offered for this model", ram)).WithCode(CodeInvalidRAM)
	}

	// both values are valid on their own, but the combination must be one
	// the price matrix actually sells
	if _, ok := model.VariantPrice(storage, ram); !ok {
		return nil, apperr.Validation(fmt.Sprintf("the %s / %s combination is not available", storage, ram)).WithCode(CodeVariantCombinationUnavailable)
	}

	questions := model.QuestionsByID()
	answers := make([]ResolvedAnswer, 0, len(req.QuestionAnswers))
	for _, ans := range req.QuestionAnswers {
		question, ok := questions[ans.QuestionID]
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown question %q", ans.QuestionID)).WithCode(CodeUnknownQuestion)
		}
		if question.Type == domain.QuestionSingleChoice && len(ans.Labels) > 1 {
			return nil, apperr.Validation(fmt.Sprintf("question %q accepts a single answer", ans.QuestionID)).WithCode(CodeMultipleAnswersForSingleChoice)
		}
		for _, label := range ans.Labels {
			if _, ok := question.Option(label); !ok {
				return nil, apperr.Validation(fmt.Sprintf("question %q has no option %q", ans.QuestionID, label)).WithCode(CodeUnknownAnswerOption)
			}
		}
		answers = append(answers, ResolvedAnswer{Question: question, Labels: ans.Labels})
	}

	return &ResolvedQuote{
		Model:   model,
		Storage: storage,
		RAM:     ram,
		Answers: answers,
	}, nil
}
