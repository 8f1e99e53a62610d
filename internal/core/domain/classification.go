package domain

import "time"

// ClassificationMethod labels results produced by the weighted pattern engine.
const ClassificationMethod = "weighted_pattern_matching"

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ClassificationResult is an append-only record of one classification run.
type ClassificationResult struct {
	ID                   string          `json:"id"`
	DocumentID           string          `json:"document_id"`
	CategoryID           int64           `json:"category_id"`
	ConfidenceLevel      ConfidenceLevel `json:"confidence_level"`
	ConfidenceScore      float64         `json:"confidence_score"`
	ClassificationMethod string          `json:"classification_method"`
	MatchedCriteria      []string        `json:"matched_criteria"`
	ClassifiedAt         time.Time       `json:"classified_at"`
}

// ClassificationOutcome is the response of the classify-document operation.
type ClassificationOutcome struct {
	Document        *Document            `json:"document"`
	Result          ClassificationResult `json:"result"`
	Category        Category             `json:"category"`
	MatchedCriteria []Criterion          `json:"matched_criteria_details"`
}
