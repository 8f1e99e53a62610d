package usecase

import (
	"context"
	"testing"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

func TestListClassificationsRequiresExistingDocument(t *testing.T) {
	docs := &classifyDocsFake{docs: map[string]*domain.Document{"doc-1": {ID: "doc-1"}}}
	results := &resultsFake{appended: []domain.ClassificationResult{
		{ID: "r-1", DocumentID: "doc-1"},
		{ID: "r-2", DocumentID: "doc-2"},
	}}
	uc := NewDocumentQueryUseCase(docs, results)

	history, err := uc.ListClassifications(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListClassifications() error = %v", err)
	}
	if len(history) != 1 || history[0].ID != "r-1" {
		t.Fatalf("unexpected history: %+v", history)
	}

	_, err = uc.ListClassifications(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
