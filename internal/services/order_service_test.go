// internal/services/order_service_test.go
package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/models"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int
		want      string
	}{
		{"exact cents", "1.20", 3, "3.60"},
		{"single unit", "2.50", 1, "2.50"},
		{"repeating binary fraction", "0.10", 3, "0.30"},
		{"large quantity", "19.99", 100, "1999.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := decimal.RequireFromString(tt.unitPrice)
			want := decimal.RequireFromString(tt.want)
			got := LineTotal(price, tt.quantity)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestLineTotalAccumulation(t *testing.T) {
	// 3 x 1.20 + 2 x 0.85 = 5.30, with no float drift
	total := decimal.Zero
	total = total.Add(LineTotal(decimal.RequireFromString("1.20"), 3))
	total = total.Add(LineTotal(decimal.RequireFromString("0.85"), 2))
	assert.Equal(t, "5.30", total.StringFixed(2))
}

func TestCreateOrderRequestValidation(t *testing.T) {
	svc := NewOrderService(nil)

	tests := []struct {
		name string
		req  CreateOrderRequest
	}{
		{"missing client", CreateOrderRequest{Items: []OrderItemRequest{{IDProduit: 1, QuantiteProduit: 1}}}},
		{"no items", CreateOrderRequest{IDClient: 1}},
		{"empty items", CreateOrderRequest{IDClient: 1, Items: []OrderItemRequest{}}},
		{"zero quantity", CreateOrderRequest{IDClient: 1, Items: []OrderItemRequest{{IDProduit: 1}}}},
		{"negative quantity", CreateOrderRequest{IDClient: 1, Items: []OrderItemRequest{{IDProduit: 1, QuantiteProduit: -2}}}},
		{"missing product id", CreateOrderRequest{IDClient: 1, Items: []OrderItemRequest{{QuantiteProduit: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.Validation(""))
		})
	}
}

// fakeOrderStore records the order workflow's writes so tests can assert on
// what the transaction would have committed.
type fakeOrderStore struct {
	clients  map[int64]bool
	products map[int64]*models.Product

	nextOrderID int64
	order       *models.Order
	lines       []*models.OrderLine
	decrements  map[int64]int
	finalized   bool
	finalTotal  decimal.Decimal
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		clients:     map[int64]bool{1: true},
		products:    map[int64]*models.Product{},
		nextOrderID: 100,
		decrements:  map[int64]int{},
	}
}

func (f *fakeOrderStore) addProduct(id int64, price string, stock int) {
	f.products[id] = &models.Product{
		IDProduit:     id,
		Nom:           "produit",
		Prix:          decimal.RequireFromString(price),
		QuantiteStock: stock,
	}
}

func (f *fakeOrderStore) ClientExists(ctx context.Context, id int64) (bool, error) {
	return f.clients[id], nil
}

func (f *fakeOrderStore) InsertOrder(ctx context.Context, order *models.Order) error {
	order.IDCommande = f.nextOrderID
	f.order = order
	return nil
}

func (f *fakeOrderStore) LockProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (f *fakeOrderStore) InsertLine(ctx context.Context, line *models.OrderLine) error {
	f.lines = append(f.lines, line)
	return nil
}

func (f *fakeOrderStore) DecrementStock(ctx context.Context, productID int64, qty int) error {
	f.decrements[productID] += qty
	f.products[productID].QuantiteStock -= qty
	return nil
}

func (f *fakeOrderStore) FinalizeTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	f.finalized = true
	f.finalTotal = total
	return nil
}

func TestCreateOrderWorkflow(t *testing.T) {
	store := newFakeOrderStore()
	store.addProduct(7, "1.20", 10)

	receipt, err := createOrder(context.Background(), store, &CreateOrderRequest{
		IDClient: 1,
		Items:    []OrderItemRequest{{IDProduit: 7, QuantiteProduit: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), receipt.IDCommande)
	assert.Equal(t, "3.60", receipt.Total.StringFixed(2))

	require.NotNil(t, store.order)
	assert.Equal(t, int64(1), store.order.IDClient)

	require.Len(t, store.lines, 1)
	assert.Equal(t, int64(100), store.lines[0].IDCommande)
	assert.Equal(t, 3, store.lines[0].QuantiteProduit)
	assert.Equal(t, "1.20", store.lines[0].PrixUnitaire.StringFixed(2))

	assert.Equal(t, 3, store.decrements[7])
	assert.Equal(t, 7, store.products[7].QuantiteStock)

	assert.True(t, store.finalized)
	assert.Equal(t, "3.60", store.finalTotal.StringFixed(2))
}

func TestCreateOrderMultiLineTotal(t *testing.T) {
	store := newFakeOrderStore()
	store.addProduct(7, "1.20", 10)
	store.addProduct(8, "0.85", 10)

	receipt, err := createOrder(context.Background(), store, &CreateOrderRequest{
		IDClient: 1,
		Items: []OrderItemRequest{
			{IDProduit: 7, QuantiteProduit: 3},
			{IDProduit: 8, QuantiteProduit: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "5.30", receipt.Total.StringFixed(2))
	require.Len(t, store.lines, 2)
	assert.Equal(t, 3, store.decrements[7])
	assert.Equal(t, 2, store.decrements[8])
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	store := newFakeOrderStore()
	store.addProduct(7, "1.20", 2)

	_, err := createOrder(context.Background(), store, &CreateOrderRequest{
		IDClient: 1,
		Items:    []OrderItemRequest{{IDProduit: 7, QuantiteProduit: 5}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.InsufficientStock(0, 0, 0))

	var apperr *apperrors.Error
	require.ErrorAs(t, err, &apperr)
	assert.Equal(t, int64(7), apperr.Details["id_produit"])
	assert.Equal(t, 5, apperr.Details["requested"])
	assert.Equal(t, 2, apperr.Details["available"])

	assert.Empty(t, store.decrements)
	assert.False(t, store.finalized)
}

func TestCreateOrderUnknownProductLine(t *testing.T) {
	store := newFakeOrderStore()
	store.addProduct(7, "1.20", 10)

	_, err := createOrder(context.Background(), store, &CreateOrderRequest{
		IDClient: 1,
		Items: []OrderItemRequest{
			{IDProduit: 7, QuantiteProduit: 1},
			{IDProduit: 99, QuantiteProduit: 1},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.NotFound(""))
	assert.Contains(t, err.Error(), "produit 99 (item 1)")

	// the transaction rolls back whatever happened before the bad line
	assert.False(t, store.finalized)
}

func TestCreateOrderUnknownClient(t *testing.T) {
	store := newFakeOrderStore()
	store.addProduct(7, "1.20", 10)

	_, err := createOrder(context.Background(), store, &CreateOrderRequest{
		IDClient: 42,
		Items:    []OrderItemRequest{{IDProduit: 7, QuantiteProduit: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.NotFound(""))
	assert.Nil(t, store.order)
	assert.Empty(t, store.lines)
}

func TestOrderItemRequestCoercesNumericStrings(t *testing.T) {
	var item OrderItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id_produit": "42", "quantite_produit": "3"}`), &item))
	assert.Equal(t, int64(42), item.IDProduit)
	assert.Equal(t, 3, item.QuantiteProduit)

	require.NoError(t, json.Unmarshal([]byte(`{"id_produit": 42, "quantite_produit": 3}`), &item))
	assert.Equal(t, int64(42), item.IDProduit)
	assert.Equal(t, 3, item.QuantiteProduit)
}

func TestOrderItemRequestRejectsNonIntegers(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"fractional quantity", `{"id_produit": 1, "quantite_produit": 4.5}`, "quantite_produit"},
		{"garbage string id", `{"id_produit": "abc", "quantite_produit": 1}`, "id_produit"},
		{"boolean quantity", `{"id_produit": 1, "quantite_produit": true}`, "quantite_produit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item OrderItemRequest
			err := json.Unmarshal([]byte(tt.body), &item)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.Validation(""))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestOrderItemRequestAbsentFieldsZero(t *testing.T) {
	// absent fields stay zero so the struct validator names them
	var item OrderItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &item))
	assert.Zero(t, item.IDProduit)
	assert.Zero(t, item.QuantiteProduit)
}

func TestInsufficientStockDetails(t *testing.T) {
	err := apperrors.InsufficientStock(7, 10, 4)

	var apperr *apperrors.Error
	require.ErrorAs(t, err, &apperr)
	assert.Equal(t, int64(7), apperr.Details["id_produit"])
	assert.Equal(t, 10, apperr.Details["requested"])
	assert.Equal(t, 4, apperr.Details["available"])
	assert.Equal(t, 6, apperr.Details["shortfall"])
}
