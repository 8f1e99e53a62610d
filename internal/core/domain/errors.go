package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrNoContent         = errors.New("document has no extracted content")
	ErrNoCriteria        = errors.New("no classification criteria configured")
	ErrNoMatch           = errors.New("no confident classification possible")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCriterionNotFound = errors.New("criterion not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ErrorCode returns the stable wire code for a semantic error kind.
func ErrorCode(err error) string {
	switch {
	case IsKind(err, ErrDocumentNotFound):
		return "document_not_found"
	case IsKind(err, ErrNoContent):
		return "no_content"
	case IsKind(err, ErrNoCriteria):
		return "no_criteria"
	case IsKind(err, ErrNoMatch):
		return "no_match"
	case IsKind(err, ErrCategoryNotFound):
		return "category_not_found"
	case IsKind(err, ErrCriterionNotFound):
		return "criterion_not_found"
	case IsKind(err, ErrInvalidInput):
		return "invalid_input"
	case IsKind(err, ErrConflict):
		return "conflict"
	case IsKind(err, ErrTemporary):
		return "temporary"
	default:
		return "internal"
	}
}
