package classifier

import (
	"fmt"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// Outcome is the result of running the scorer, selector and confidence mapper.
type Outcome struct {
	Category   domain.Category
	RawScore   float64
	Confidence Confidence
	Matched    []domain.Criterion
	Scores     []CategoryScore
	Fallbacks  []domain.Criterion
}

// MatchedNames returns the names of the winning category's matched criteria in index order.
func (o Outcome) MatchedNames() []string {
	names := make([]string, 0, len(o.Matched))
	for _, c := range o.Matched {
		names = append(names, c.Name)
	}
	return names
}

// Classify scores text against the index and selects the winning category.
// It fails with domain.ErrNoMatch when no category scores above zero.
func Classify(text string, index []domain.CriterionWithCategory) (Outcome, error) {
	scoring := Score(text, index)

	winner, err := Select(scoring.Scores)
	if err != nil {
		return Outcome{Scores: scoring.Scores, Fallbacks: scoring.Fallbacks}, err
	}

	confidence, err := MapConfidence(winner.RawScore)
	if err != nil {
		return Outcome{}, fmt.Errorf("confidence for category %d: %w", winner.Category.ID, err)
	}

	return Outcome{
		Category:   winner.Category,
		RawScore:   winner.RawScore,
		Confidence: confidence,
		Matched:    winner.Matched,
		Scores:     scoring.Scores,
		Fallbacks:  scoring.Fallbacks,
	}, nil
}
