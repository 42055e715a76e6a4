// internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"not found", NotFound("client"), http.StatusNotFound},
		{"conflict", Conflict("email already in use"), http.StatusConflict},
		{"ambiguous", Ambiguous("42", 3), http.StatusBadRequest},
		{"insufficient stock", InsufficientStock(7, 5, 2), http.StatusBadRequest},
		{"storage", Storage("query failed", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestErrorsIsMatchesOnKind(t *testing.T) {
	err := fmt.Errorf("creating order: %w", NotFound("produit"))

	assert.True(t, errors.Is(err, NotFound("")))
	assert.False(t, errors.Is(err, Conflict("")))
}

func TestInsufficientStockCarriesShortfall(t *testing.T) {
	err := InsufficientStock(42, 5, 2)

	assert.Equal(t, int64(42), err.Details["id_produit"])
	assert.Equal(t, 3, err.Details["shortfall"])
	assert.Contains(t, err.Error(), "insufficient stock for product 42")
}

func TestStorageUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("inserting line", cause)

	assert.ErrorIs(t, err, cause)
}
