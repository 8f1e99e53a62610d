package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
)

type IngestDocumentUseCase struct {
	repo         ports.DocumentRepository
	storage      ports.ObjectStorage
	extractor    ports.TextExtractor
	queue        ports.MessageQueue
	autoClassify bool
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	queue ports.MessageQueue,
	autoClassify bool,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:         repo,
		storage:      storage,
		extractor:    extractor,
		queue:        queue,
		autoClassify: autoClassify,
	}
}

func (uc *IngestDocumentUseCase) Upload(ctx context.Context, req ports.UploadRequest) (*domain.Document, error) {
	fileType, ok := domain.FileTypeFromFilename(req.Filename)
	if !ok {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"upload document",
			fmt.Errorf("unsupported file type %q: expected pdf, docx or txt", filepath.Ext(req.Filename)),
		)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(req.Filename))

	size, err := uc.storage.Save(ctx, storageKey, req.Body)
	if err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		Filename:    req.Filename,
		FileType:    fileType,
		FileSize:    size,
		StoragePath: storageKey,
		Content:     strings.TrimSpace(req.Content),
		UploadedAt:  time.Now().UTC(),
	}

	if doc.Content == "" && fileType == domain.FileTypeTXT {
		text, err := uc.extractor.Extract(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
		doc.Content = text
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if uc.autoClassify && uc.queue != nil {
		if err := uc.queue.PublishClassifyRequested(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("publish classify request: %w", err)
		}
	}

	slog.Info("document_uploaded",
		"document_id", doc.ID,
		"file_type", string(doc.FileType),
		"file_size", doc.FileSize,
		"has_content", doc.HasContent(),
	)
	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
