package localfs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

func TestSaveReturnsSizeAndOpenReadsBack(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	size, err := store.Save(context.Background(), "doc-1_notes.txt", strings.NewReader("quarterly revenue"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if size != int64(len("quarterly revenue")) {
		t.Fatalf("unexpected size %d", size)
	}

	rc, err := store.Open(context.Background(), "doc-1_notes.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(raw) != "quarterly revenue" {
		t.Fatalf("unexpected content %q", raw)
	}
}

func TestRejectsKeysOutsideBase(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, key := range []string{"../escape.txt", "/etc/passwd", "nested/file.txt", ""} {
		if _, err := store.Save(context.Background(), key, strings.NewReader("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("Save(%q) expected ErrInvalidInput, got %v", key, err)
		}
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := store.Open(context.Background(), "missing.txt"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
