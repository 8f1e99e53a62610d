package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
)

type DocumentQueryUseCase struct {
	documents ports.DocumentRepository
	results   ports.ClassificationRepository
}

func NewDocumentQueryUseCase(documents ports.DocumentRepository, results ports.ClassificationRepository) *DocumentQueryUseCase {
	return &DocumentQueryUseCase{documents: documents, results: results}
}

func (uc *DocumentQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.documents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListClassifications returns the classification history of a document, newest first.
func (uc *DocumentQueryUseCase) ListClassifications(ctx context.Context, documentID string) ([]domain.ClassificationResult, error) {
	if _, err := uc.documents.GetByID(ctx, documentID); err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	results, err := uc.results.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list classification results: %w", err)
	}
	return results, nil
}
