package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// DocumentRepository persists and reads documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

// CriteriaRepository persists criteria and serves the criteria index.
type CriteriaRepository interface {
	CreateCriterion(ctx context.Context, criterion *domain.Criterion) error
	ListCriteria(ctx context.Context, filter domain.CriteriaFilter) ([]domain.Criterion, error)
	GetCriterion(ctx context.Context, id int64) (*domain.Criterion, error)
	UpdateCriterion(ctx context.Context, criterion *domain.Criterion) error
	DeleteCriterion(ctx context.Context, id int64) error

	// ListWithCategory returns every criterion joined with its category, ordered by
	// category id then criterion id.
	ListWithCategory(ctx context.Context) ([]domain.CriterionWithCategory, error)
}

// ClassificationRepository appends and lists classification results.
type ClassificationRepository interface {
	Append(ctx context.Context, result *domain.ClassificationResult) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.ClassificationResult, error)
}

// ClassificationSink receives stored results for secondary projections. Failures are logged
// by the caller and never fail the classification.
type ClassificationSink interface {
	Project(ctx context.Context, outcome *domain.ClassificationOutcome) error
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// ClassifyRequest is one queued request to classify a document.
type ClassifyRequest struct {
	DocumentID  string    `json:"document_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// MessageQueue publishes/consumes classification requests.
type MessageQueue interface {
	PublishClassifyRequested(ctx context.Context, documentID string) error
	SubscribeClassifyRequested(ctx context.Context, handler func(context.Context, ClassifyRequest) error) error
}

// ClassificationObserver records classification runs. Status is "success" or an error code.
type ClassificationObserver interface {
	ObserveClassification(status, confidenceLevel string, duration time.Duration)
	ObservePatternFallbacks(count int)
}
