package ports

import (
	"context"
	"io"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// DocumentClassificationService is the inbound contract for the classify-document operation.
type DocumentClassificationService interface {
	Classify(ctx context.Context, documentID string) (*domain.ClassificationOutcome, error)
}

// UploadRequest describes a document upload. Content carries upstream-extracted text and
// takes precedence over built-in extraction when non-empty.
type UploadRequest struct {
	Filename string
	Content  string
	Body     io.Reader
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)
}

// DocumentReader is the inbound read model for documents and their classification history.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListClassifications(ctx context.Context, documentID string) ([]domain.ClassificationResult, error)
}

// CatalogService manages categories and their criteria.
type CatalogService interface {
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateCriterion(ctx context.Context, in domain.CriterionInput) (*domain.Criterion, error)
	ListCriteria(ctx context.Context, filter domain.CriteriaFilter) ([]domain.Criterion, error)
	UpdateCriterion(ctx context.Context, id int64, in domain.CriterionInput) (*domain.Criterion, error)
	DeleteCriterion(ctx context.Context, id int64) error
}
