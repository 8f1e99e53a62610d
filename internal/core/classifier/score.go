// Package classifier scores document text against weighted pattern criteria and picks
// a category with a bucketed confidence. Everything here is pure and synchronous.
package classifier

import (
	"regexp"
	"strings"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// CategoryScore is the accumulated weight of the matched criteria of one category.
type CategoryScore struct {
	Category domain.Category
	RawScore float64
	Matched  []domain.Criterion
}

// Scoring holds per-category scores in first-seen index order.
// Fallbacks lists criteria whose pattern did not compile and were matched as plain substrings.
type Scoring struct {
	Scores    []CategoryScore
	Fallbacks []domain.Criterion
}

// Score evaluates every criterion of the index against text. Categories without a matching
// criterion are omitted. Matched criteria keep the index order.
func Score(text string, index []domain.CriterionWithCategory) Scoring {
	lowered := strings.ToLower(text)

	var out Scoring
	position := make(map[int64]int)
	for _, entry := range index {
		matched, fallback := matchPattern(entry.Criterion.Pattern, lowered)
		if fallback {
			out.Fallbacks = append(out.Fallbacks, entry.Criterion)
		}
		if !matched {
			continue
		}

		idx, ok := position[entry.Category.ID]
		if !ok {
			idx = len(out.Scores)
			position[entry.Category.ID] = idx
			out.Scores = append(out.Scores, CategoryScore{Category: entry.Category})
		}
		out.Scores[idx].RawScore += entry.Criterion.Weight
		out.Scores[idx].Matched = append(out.Scores[idx].Matched, entry.Criterion)
	}
	return out
}

// matchPattern tests pattern against already lower-cased text. A pattern that is not a valid
// regular expression degrades to a case-insensitive substring test and reports fallback=true.
func matchPattern(pattern, loweredText string) (matched bool, fallback bool) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return strings.Contains(loweredText, strings.ToLower(pattern)), true
	}
	return re.MatchString(loweredText), false
}

// Matches reports whether pattern matches text using the same rules as Score.
func Matches(pattern, text string) bool {
	matched, _ := matchPattern(pattern, strings.ToLower(text))
	return matched
}

// IsRegex reports whether pattern compiles as a case-insensitive regular expression.
func IsRegex(pattern string) bool {
	_, err := regexp.Compile("(?i)" + pattern)
	return err == nil
}
