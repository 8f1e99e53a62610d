package classifier

import (
	"fmt"
	"math"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// Thresholds are in raw additive weight units, not normalized units.
const (
	HighThreshold   = 2.0
	MediumThreshold = 1.0

	// NormalizationDivisor is the cumulative weight treated as a "strong" match. It is not
	// derived from the number of criteria, so a raw 2.0 (high) normalizes to ~0.667.
	NormalizationDivisor = 3.0
)

// Confidence is the bucketed level and normalized score derived from a winning raw score.
type Confidence struct {
	Level domain.ConfidenceLevel
	Score float64
}

// MapConfidence buckets a positive raw score and normalizes it to [0,1].
func MapConfidence(rawScore float64) (Confidence, error) {
	if !(rawScore > 0) {
		return Confidence{}, domain.WrapError(
			domain.ErrInvalidInput,
			"map confidence",
			fmt.Errorf("raw score must be positive, got %v", rawScore),
		)
	}

	level := domain.ConfidenceLow
	switch {
	case rawScore >= HighThreshold:
		level = domain.ConfidenceHigh
	case rawScore >= MediumThreshold:
		level = domain.ConfidenceMedium
	}

	return Confidence{
		Level: level,
		Score: math.Min(rawScore/NormalizationDivisor, 1.0),
	}, nil
}
