// internal/apperrors/errors.go
package apperrors

import (
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP boundary can pick a status code and
// callers can tell retryable conditions (insufficient stock) from permanent
// ones (not found, malformed input).
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindAmbiguousReference Kind = "AMBIGUOUS_REFERENCE"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindStorage            Kind = "STORAGE_ERROR"
)

// Error is the single error type crossing service boundaries. Details carries
// structured context (field names, product ids, shortfalls) for the response
// payload.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is makes errors.Is match on Kind, so sentinel comparisons like
// errors.Is(err, apperrors.NotFound("")) work without exposing internals.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// HTTPStatus maps the error kind to the protocol-level status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindAmbiguousReference, KindInsufficientStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationField reports a failure tied to a single named field.
func ValidationField(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Ambiguous is returned when a foreign-key lookup matches several documents
// on a mutate path; the caller must retry with the document's native id.
func Ambiguous(key string, matches int) *Error {
	return &Error{
		Kind:    KindAmbiguousReference,
		Message: fmt.Sprintf("identifier %q matches %d documents, use the document id to disambiguate", key, matches),
		Details: map[string]interface{}{"identifier": key, "matches": matches},
	}
}

// InsufficientStock carries the product and the shortfall so the caller can
// retry with a smaller quantity.
func InsufficientStock(productID int64, requested, available int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", productID, requested, available),
		Details: map[string]interface{}{
			"id_produit": productID,
			"requested":  requested,
			"available":  available,
			"shortfall":  requested - available,
		},
	}
}

func Storage(message string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: message, cause: cause}
}

// WithDetails attaches structured context and returns the same error.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}
