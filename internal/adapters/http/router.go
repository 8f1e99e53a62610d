package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/kirillkom/doc-classifier/internal/adapters/http/openapi"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
)

const defaultMaxUploadBytes int64 = 25 << 20

type Options struct {
	MaxUploadBytes int64

	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Validator checks requests against the embedded OpenAPI document when set.
	Validator *openapi.Validator
	// OnUpload is called with the size of each stored upload.
	OnUpload func(size int64)
}

type Router struct {
	ingest     ports.DocumentIngestor
	documents  ports.DocumentReader
	classifier ports.DocumentClassificationService
	catalog    ports.CatalogService
	opts       Options
}

func NewRouter(
	ingest ports.DocumentIngestor,
	documents ports.DocumentReader,
	classifier ports.DocumentClassificationService,
	catalog ports.CatalogService,
	opts Options,
) *Router {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Router{
		ingest:     ingest,
		documents:  documents,
		classifier: classifier,
		catalog:    catalog,
		opts:       opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPIDocument)
	if rt.opts.Metrics != nil {
		mux.Handle("GET /metrics", rt.opts.Metrics)
	}

	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("GET /v1/documents/{id}/classifications", rt.listClassifications)
	mux.HandleFunc("POST /v1/classify", rt.classifyDocument)

	mux.HandleFunc("GET /v1/categories", rt.listCategories)
	mux.HandleFunc("POST /v1/categories", rt.createCategory)
	mux.HandleFunc("GET /v1/categories/{id}", rt.getCategory)
	mux.HandleFunc("PUT /v1/categories/{id}", rt.updateCategory)
	mux.HandleFunc("DELETE /v1/categories/{id}", rt.deleteCategory)

	mux.HandleFunc("GET /v1/criteria", rt.listCriteria)
	mux.HandleFunc("POST /v1/criteria", rt.createCriterion)
	mux.HandleFunc("PUT /v1/criteria/{id}", rt.updateCriterion)
	mux.HandleFunc("DELETE /v1/criteria/{id}", rt.deleteCriterion)

	var handler http.Handler = mux
	if rt.opts.Validator != nil {
		handler = rt.opts.Validator.Middleware(handler, writeValidationError)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Document())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
