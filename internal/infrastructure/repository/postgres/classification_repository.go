package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// ClassificationRepository stores the append-only classification history.
type ClassificationRepository struct {
	db *sql.DB
}

func NewClassificationRepository(db *sql.DB) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

func (r *ClassificationRepository) Append(ctx context.Context, result *domain.ClassificationResult) error {
	matched := result.MatchedCriteria
	if matched == nil {
		matched = []string{}
	}
	matchedJSON, err := json.Marshal(matched)
	if err != nil {
		return fmt.Errorf("marshal matched criteria: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO classification_results (
	id, document_id, category_id, confidence_level, confidence_score,
	classification_method, matched_criteria, classified_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8)
`,
		result.ID, result.DocumentID, result.CategoryID, string(result.ConfidenceLevel), result.ConfidenceScore,
		result.ClassificationMethod, string(matchedJSON), result.ClassifiedAt,
	)
	if err != nil {
		return mapWriteError("insert classification result", err)
	}
	return nil
}

// ListByDocument returns the document's history, newest first.
func (r *ClassificationRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.ClassificationResult, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, category_id, confidence_level, confidence_score,
	classification_method, matched_criteria, classified_at
FROM classification_results
WHERE document_id = $1
ORDER BY classified_at DESC, id
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list classification results: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ClassificationResult, 0)
	for rows.Next() {
		var (
			res         domain.ClassificationResult
			level       string
			matchedJSON []byte
		)
		if err := rows.Scan(
			&res.ID, &res.DocumentID, &res.CategoryID, &level, &res.ConfidenceScore,
			&res.ClassificationMethod, &matchedJSON, &res.ClassifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan classification result: %w", err)
		}
		res.ConfidenceLevel = domain.ConfidenceLevel(level)
		res.MatchedCriteria = []string{}
		if len(matchedJSON) > 0 {
			if err := json.Unmarshal(matchedJSON, &res.MatchedCriteria); err != nil {
				return nil, fmt.Errorf("decode matched criteria: %w", err)
			}
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classification results: %w", err)
	}
	return out, nil
}
