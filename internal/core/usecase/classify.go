package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kirillkom/doc-classifier/internal/core/classifier"
	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
)

type ClassifyOptions struct {
	Sinks    []ports.ClassificationSink
	Observer ports.ClassificationObserver

	// FallbackLogInterval throttles warnings about patterns that are not valid regular
	// expressions. Zero logs only the first occurrence.
	FallbackLogInterval time.Duration
}

type ClassifyDocumentUseCase struct {
	documents ports.DocumentRepository
	criteria  ports.CriteriaRepository
	results   ports.ClassificationRepository
	sinks     []ports.ClassificationSink
	observer  ports.ClassificationObserver

	fallbackLog *rate.Sometimes
	now         func() time.Time
	newID       func() string
}

func NewClassifyDocumentUseCase(
	documents ports.DocumentRepository,
	criteria ports.CriteriaRepository,
	results ports.ClassificationRepository,
	options ClassifyOptions,
) *ClassifyDocumentUseCase {
	return &ClassifyDocumentUseCase{
		documents:   documents,
		criteria:    criteria,
		results:     results,
		sinks:       options.Sinks,
		observer:    options.Observer,
		fallbackLog: &rate.Sometimes{Interval: options.FallbackLogInterval},
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func (uc *ClassifyDocumentUseCase) Classify(ctx context.Context, documentID string) (*domain.ClassificationOutcome, error) {
	start := time.Now()
	out, err := uc.classify(ctx, documentID)
	if uc.observer != nil {
		status, level := "success", ""
		if err != nil {
			status = domain.ErrorCode(err)
		} else {
			level = string(out.Result.ConfidenceLevel)
		}
		uc.observer.ObserveClassification(status, level, time.Since(start))
	}
	return out, err
}

func (uc *ClassifyDocumentUseCase) classify(ctx context.Context, documentID string) (*domain.ClassificationOutcome, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "classify document", errors.New("document_id is required"))
	}

	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.HasContent() {
		return nil, domain.WrapError(domain.ErrNoContent, "classify document", fmt.Errorf("id=%s", documentID))
	}

	index, err := uc.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	outcome, err := classifier.Classify(doc.Content, index)
	uc.reportFallbacks(documentID, outcome.Fallbacks)
	if err != nil {
		return nil, fmt.Errorf("classify document %s: %w", documentID, err)
	}

	result := domain.ClassificationResult{
		ID:                   uc.newID(),
		DocumentID:           doc.ID,
		CategoryID:           outcome.Category.ID,
		ConfidenceLevel:      outcome.Confidence.Level,
		ConfidenceScore:      outcome.Confidence.Score,
		ClassificationMethod: domain.ClassificationMethod,
		MatchedCriteria:      outcome.MatchedNames(),
		ClassifiedAt:         uc.now(),
	}
	if err := uc.results.Append(ctx, &result); err != nil {
		return nil, fmt.Errorf("persist classification result: %w", err)
	}

	out := &domain.ClassificationOutcome{
		Document:        doc,
		Result:          result,
		Category:        outcome.Category,
		MatchedCriteria: matchedDetails(index, outcome.Matched),
	}
	uc.project(ctx, out)

	slog.Info("classification_completed",
		"document_id", doc.ID,
		"result_id", result.ID,
		"category_id", result.CategoryID,
		"raw_score", outcome.RawScore,
		"confidence_level", string(result.ConfidenceLevel),
		"confidence_score", result.ConfidenceScore,
		"matched", len(result.MatchedCriteria),
	)
	return out, nil
}

func (uc *ClassifyDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ClassifyDocumentUseCase) loadIndex(ctx context.Context) ([]domain.CriterionWithCategory, error) {
	index, err := uc.criteria.ListWithCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch criteria with category: %w", err)
	}
	if len(index) == 0 {
		return nil, domain.WrapError(domain.ErrNoCriteria, "classify document", errors.New("criteria index is empty"))
	}
	return index, nil
}

func (uc *ClassifyDocumentUseCase) reportFallbacks(documentID string, fallbacks []domain.Criterion) {
	if uc.observer != nil && len(fallbacks) > 0 {
		uc.observer.ObservePatternFallbacks(len(fallbacks))
	}
	for _, c := range fallbacks {
		uc.fallbackLog.Do(func() {
			slog.Warn("pattern_substring_fallback",
				"document_id", documentID,
				"criterion_id", c.ID,
				"criterion", c.Name,
				"pattern", c.Pattern,
			)
		})
	}
}

func (uc *ClassifyDocumentUseCase) project(ctx context.Context, outcome *domain.ClassificationOutcome) {
	for _, sink := range uc.sinks {
		if err := sink.Project(ctx, outcome); err != nil {
			slog.Warn("classification_projection_failed",
				"document_id", outcome.Document.ID,
				"result_id", outcome.Result.ID,
				"error", err,
			)
		}
	}
}

// matchedDetails picks the full criterion records of the matched ids from the index,
// keeping index order and dropping duplicates.
func matchedDetails(index []domain.CriterionWithCategory, matched []domain.Criterion) []domain.Criterion {
	ids := make(map[int64]bool, len(matched))
	for _, c := range matched {
		ids[c.ID] = true
	}

	out := make([]domain.Criterion, 0, len(matched))
	for _, entry := range index {
		if !ids[entry.Criterion.ID] {
			continue
		}
		out = append(out, entry.Criterion)
		delete(ids, entry.Criterion.ID)
	}
	return out
}
