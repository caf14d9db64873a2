package service

import (
	"fmt"

	"mobiletrade_backend/internal/tradein/transport"
	"mobiletrade_backend/platform/apperr"
)

// QuoteResult is the priced outcome of a resolved quote.
// FinalPrice is always BasePrice + TotalAdjustment; the sum is never
// clamped, so a heavily damaged phone can quote at or below zero and an
// admin decides what to do with it.
type QuoteResult struct {
	BasePrice       float64
	TotalAdjustment float64
	FinalPrice      float64
	Adjustments     []transport.AdjustmentDetail
}

// CalculateQuote prices a resolved quote. It is a pure function of its
// input: the base price comes from the variant matrix and every selected
// answer contributes its signed modifier, recorded in the order the
// answers were resolved.
func CalculateQuote(resolved *ResolvedQuote) (*QuoteResult, error) {
	base, ok := resolved.Model.VariantPrice(resolved.Storage, resolved.RAM)
	if !ok {
		// validation guarantees the pair exists; a miss here means the
		// resolved quote and the catalog disagree
		return nil, apperr.Internal(fmt.Sprintf("no base price for %s / %s", resolved.Storage, resolved.RAM))
	}

	total := 0.0
	adjustments := make([]transport.AdjustmentDetail, 0, len(resolved.Answers))
	for _, ans := range resolved.Answers {
		for _, label := range ans.Labels {
			opt, ok := ans.Question.Option(label)
			if !ok {
				return nil, apperr.Internal(fmt.Sprintf("no price modifier for answer %q to question %q", label, ans.Question.ID))
			}
			total += opt.PriceModifier
			adjustments = append(adjustments, transport.AdjustmentDetail{
				QuestionID: ans.Question.ID,
				Answer:     label,
				Modifier:   opt.PriceModifier,
			})
		}
	}

	return &QuoteResult{
		BasePrice:       base,
		TotalAdjustment: total,
		FinalPrice:      base + total,
		Adjustments:     adjustments,
	}, nil
}
