package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func mapErrorToHTTPStatus(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound),
		domain.IsKind(err, domain.ErrCategoryNotFound),
		domain.IsKind(err, domain.ErrCriterionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrNoCriteria),
		domain.IsKind(err, domain.ErrConflict):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrNoContent),
		domain.IsKind(err, domain.ErrNoMatch):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	code := domain.ErrorCode(err)
	message := err.Error()

	switch {
	case status == http.StatusRequestEntityTooLarge:
		code = "payload_too_large"
	case status >= http.StatusInternalServerError:
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		if status == http.StatusInternalServerError {
			message = "internal error"
		}
	}
	annotate(r, "error_code", code)
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	annotate(r, "error_code", "openapi_validation")
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: domain.ErrorCode(domain.ErrInvalidInput)})
}
