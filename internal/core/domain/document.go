package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypePDF, FileTypeDOCX, FileTypeTXT:
		return true
	default:
		return false
	}
}

// FileTypeFromFilename derives the file type from the filename extension.
func FileTypeFromFilename(filename string) (FileType, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	t := FileType(ext)
	return t, t.Valid()
}

type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FileType    FileType  `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	StoragePath string    `json:"storage_path"`
	Content     string    `json:"content,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// HasContent reports whether extracted text is present. Whitespace-only text counts as
// content so patterns such as \s+ still get a chance to match.
func (d *Document) HasContent() bool {
	return d != nil && d.Content != ""
}
