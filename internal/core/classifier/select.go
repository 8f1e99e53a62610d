package classifier

import (
	"errors"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// Select returns the category with the strictly greatest raw score.
//
// Ties keep the first maximum seen in a left-to-right scan, so the winner depends on the
// criteria index order (category id, then criterion id). This is long-standing behaviour that
// stored results rely on; do not switch it to name or id ordering without a migration note.
func Select(scores []CategoryScore) (CategoryScore, error) {
	best := -1
	for i := range scores {
		if scores[i].RawScore <= 0 {
			continue
		}
		if best < 0 || scores[i].RawScore > scores[best].RawScore {
			best = i
		}
	}
	if best < 0 {
		return CategoryScore{}, domain.WrapError(domain.ErrNoMatch, "select category", errors.New("every category scored 0"))
	}
	return scores[best], nil
}
