package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (id, filename, file_type, file_size, storage_path, content, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		doc.ID, doc.Filename, string(doc.FileType), doc.FileSize, doc.StoragePath, nullIfEmpty(doc.Content), doc.UploadedAt,
	)
	if err != nil {
		return mapWriteError("insert document", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, file_type, file_size, storage_path, COALESCE(content, ''), uploaded_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var fileType string
	err := row.Scan(&doc.ID, &doc.Filename, &fileType, &doc.FileSize, &doc.StoragePath, &doc.Content, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.FileType = domain.FileType(fileType)
	return &doc, nil
}
