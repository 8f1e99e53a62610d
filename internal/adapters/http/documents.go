package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
)

const multipartMemory = 8 << 20

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, r, err)
			return
		}
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "parse multipart form", err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("multipart field 'file' is required")))
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(r.Context(), ports.UploadRequest{
		Filename: fileHeader.Filename,
		Content:  r.FormValue("content"),
		Body:     file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	annotate(r, "document_id", doc.ID, "file_type", string(doc.FileType), "file_size", doc.FileSize)
	if rt.opts.OnUpload != nil {
		rt.opts.OnUpload(doc.FileSize)
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	annotate(r, "document_id", id)
	doc, err := rt.documents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) listClassifications(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	annotate(r, "document_id", id)
	history, err := rt.documents.ListClassifications(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (rt *Router) classifyDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentID string `json:"document_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	annotate(r, "document_id", req.DocumentID)
	outcome, err := rt.classifier.Classify(r.Context(), req.DocumentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	annotate(r,
		"category_id", outcome.Category.ID,
		"confidence_level", string(outcome.Result.ConfidenceLevel),
		"result_id", outcome.Result.ID,
	)
	writeJSON(w, http.StatusOK, outcome)
}
