// internal/services/client_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
)

func TestCreateClientValidation(t *testing.T) {
	svc := NewClientService(nil)

	tests := []struct {
		name string
		req  CreateClientRequest
	}{
		{"missing nom", CreateClientRequest{Email: "a@b.fr"}},
		{"missing email", CreateClientRequest{Nom: "Alice"}},
		{"malformed email", CreateClientRequest{Nom: "Alice", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClient(context.Background(), &tt.req)
			assert.ErrorIs(t, err, apperrors.Validation(""))
		})
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(nil)

	t.Run("missing nom", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{})
		assert.ErrorIs(t, err, apperrors.Validation(""))
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
			Nom:  "tarte",
			Prix: decimal.RequireFromString("-1.00"),
		})
		assert.ErrorIs(t, err, apperrors.Validation(""))
	})

	t.Run("negative stock", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
			Nom:           "tarte",
			Prix:          decimal.RequireFromString("4.50"),
			QuantiteStock: -3,
		})
		assert.ErrorIs(t, err, apperrors.Validation(""))
	})
}
