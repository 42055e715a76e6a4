// internal/services/order_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sweetcake/sweetcake-backend/internal/apperrors"
	"github.com/sweetcake/sweetcake-backend/internal/models"
	"github.com/sweetcake/sweetcake-backend/internal/utils"
)

type OrderService struct {
	db *gorm.DB
}

type OrderItemRequest struct {
	IDProduit       int64 `json:"id_produit" validate:"required,gt=0"`
	QuantiteProduit int   `json:"quantite_produit" validate:"required,gt=0"`
}

// UnmarshalJSON coerces numeric strings to integers, the same rule path ids
// and document product references follow.
func (r *OrderItemRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		IDProduit       interface{} `json:"id_produit"`
		QuantiteProduit interface{} `json:"quantite_produit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := intFromJSON("id_produit", raw.IDProduit)
	if err != nil {
		return err
	}
	qty, err := intFromJSON("quantite_produit", raw.QuantiteProduit)
	if err != nil {
		return err
	}

	r.IDProduit = id
	r.QuantiteProduit = int(qty)
	return nil
}

// intFromJSON accepts JSON numbers and numeric strings; absent fields pass
// through as zero for the struct validator to report.
func intFromJSON(field string, v interface{}) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, apperrors.ValidationField(field, field+" must be an integer")
		}
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, apperrors.ValidationField(field, field+" must be an integer")
		}
		return parsed, nil
	default:
		return 0, apperrors.ValidationField(field, field+" must be an integer")
	}
}

type CreateOrderRequest struct {
	IDClient int64              `json:"id_client" validate:"required,gt=0"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	DateCommande *time.Time `json:"date_commande"`
	IDClient     *int64     `json:"id_client" validate:"omitempty,gt=0"`
}

// OrderReceipt is the order-creation response: the new order's identity and
// its finalized total.
type OrderReceipt struct {
	IDCommande int64           `json:"id_commande"`
	Total      decimal.Decimal `json:"total"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// orderStore is the slice of storage the order workflow touches inside its
// transaction. The gorm implementation runs every call on the transaction
// handle, so one rollback undoes the whole workflow.
type orderStore interface {
	ClientExists(ctx context.Context, id int64) (bool, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	// LockProduct takes a row-level lock held until commit; a missing
	// product is (nil, nil), not an error.
	LockProduct(ctx context.Context, id int64) (*models.Product, error)
	InsertLine(ctx context.Context, line *models.OrderLine) error
	DecrementStock(ctx context.Context, productID int64, qty int) error
	FinalizeTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
}

type gormOrderStore struct {
	tx *gorm.DB
}

func (s *gormOrderStore) ClientExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := s.tx.Model(&models.Client{}).Where("id_client = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *gormOrderStore) InsertOrder(ctx context.Context, order *models.Order) error {
	return s.tx.Create(order).Error
}

func (s *gormOrderStore) LockProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id_produit = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *gormOrderStore) InsertLine(ctx context.Context, line *models.OrderLine) error {
	return s.tx.Create(line).Error
}

func (s *gormOrderStore) DecrementStock(ctx context.Context, productID int64, qty int) error {
	return s.tx.Model(&models.Product{}).
		Where("id_produit = ?", productID).
		UpdateColumn("quantite_stock", gorm.Expr("quantite_stock - ?", qty)).Error
}

func (s *gormOrderStore) FinalizeTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	return s.tx.Model(&models.Order{}).
		Where("id_commande = ?", orderID).
		UpdateColumn("total", total).Error
}

// CreateOrder runs the whole order-creation workflow in one transaction:
// shell insert, then per line (in the caller-supplied order) a locked stock
// check, a line insert snapshotting the current price, and a stock
// decrement, then the total finalization. Any failure rolls everything back;
// nothing is retried here, a stock conflict is the caller's problem.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderReceipt, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("id_client and non-empty items are required").WithDetails(utils.ValidationDetails(err))
	}

	var receipt *OrderReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := createOrder(ctx, &gormOrderStore{tx: tx}, req)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// createOrder is the transaction body. It assumes req has already passed
// struct validation and the store rolls back everything when it errors.
func createOrder(ctx context.Context, store orderStore, req *CreateOrderRequest) (*OrderReceipt, error) {
	// the owning client must exist before the shell row is inserted
	exists, err := store.ClientExists(ctx, req.IDClient)
	if err != nil {
		return nil, apperrors.Storage("checking client", err)
	}
	if !exists {
		return nil, apperrors.NotFound("client")
	}

	order := &models.Order{
		IDClient:     req.IDClient,
		DateCommande: time.Now(),
		Total:        decimal.Zero,
	}
	if err := store.InsertOrder(ctx, order); err != nil {
		return nil, apperrors.Storage("creating order", err)
	}

	total := decimal.Zero
	for i, item := range req.Items {
		// Lock held until commit. Without it two concurrent orders could
		// both pass the stock check and oversell.
		product, err := store.LockProduct(ctx, item.IDProduit)
		if err != nil {
			return nil, apperrors.Storage("locking product row", err)
		}
		if product == nil {
			return nil, apperrors.NotFound(fmt.Sprintf("produit %d (item %d)", item.IDProduit, i))
		}

		if product.QuantiteStock < item.QuantiteProduit {
			return nil, apperrors.InsufficientStock(product.IDProduit, item.QuantiteProduit, product.QuantiteStock)
		}

		// Snapshot the current price into the line; it is never re-read,
		// so a later price change cannot leak into this order.
		line := &models.OrderLine{
			IDCommande:      order.IDCommande,
			IDProduit:       product.IDProduit,
			QuantiteProduit: item.QuantiteProduit,
			PrixUnitaire:    product.Prix,
		}
		if err := store.InsertLine(ctx, line); err != nil {
			return nil, apperrors.Storage("creating order line", err)
		}

		if err := store.DecrementStock(ctx, product.IDProduit, item.QuantiteProduit); err != nil {
			return nil, apperrors.Storage("decrementing stock", err)
		}

		total = total.Add(LineTotal(product.Prix, item.QuantiteProduit))
	}

	if err := store.FinalizeTotal(ctx, order.IDCommande, total); err != nil {
		return nil, apperrors.Storage("finalizing order total", err)
	}

	return &OrderReceipt{IDCommande: order.IDCommande, Total: total}, nil
}

// LineTotal is a line's contribution to the order total, computed with
// decimal arithmetic so many lines cannot accumulate rounding drift.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Order("id_commande").Find(&orders).Error; err != nil {
		return nil, apperrors.Storage("listing orders", err)
	}
	return orders, nil
}

// GetOrder assembles the order row with its full line list, each line joined
// to its product's name.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.OrderView, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id_commande = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("commande")
		}
		return nil, apperrors.Storage("fetching order", err)
	}

	items, err := s.orderItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	view := &models.OrderView{
		IDCommande:   order.IDCommande,
		IDClient:     order.IDClient,
		DateCommande: order.DateCommande,
		Total:        order.Total,
		Items:        items[id],
	}
	if view.Items == nil {
		view.Items = []models.OrderLineView{}
	}
	return view, nil
}

// ListOrdersWithItems is the collection variant of GetOrder: every order
// with its embedded line items, in stable id order.
func (s *OrderService) ListOrdersWithItems(ctx context.Context) ([]models.OrderView, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.IDCommande)
	}

	items, err := s.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		v := models.OrderView{
			IDCommande:   o.IDCommande,
			IDClient:     o.IDClient,
			DateCommande: o.DateCommande,
			Total:        o.Total,
			Items:        items[o.IDCommande],
		}
		if v.Items == nil {
			v.Items = []models.OrderLineView{}
		}
		views = append(views, v)
	}
	return views, nil
}

// orderItems fetches the lines of the given orders in one query, joined to
// product names, grouped by order id and ordered by line id.
func (s *OrderService) orderItems(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderLineView, error) {
	if len(orderIDs) == 0 {
		return map[int64][]models.OrderLineView{}, nil
	}

	var rows []struct {
		IDProduitCommande int64
		IDCommande        int64
		IDProduit         int64
		QuantiteProduit   int
		PrixUnitaire      decimal.Decimal
		Nom               string
	}
	err := s.db.WithContext(ctx).
		Table("produit_commande AS pc").
		Select("pc.id_produit_commande, pc.id_commande, pc.id_produit, pc.quantite_produit, pc.prix_unitaire, p.nom").
		Joins("JOIN produits p ON p.id_produit = pc.id_produit").
		Where("pc.id_commande IN ?", orderIDs).
		Order("pc.id_produit_commande").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage("fetching order lines", err)
	}

	items := make(map[int64][]models.OrderLineView, len(orderIDs))
	for _, row := range rows {
		items[row.IDCommande] = append(items[row.IDCommande], models.OrderLineView{
			IDProduitCommande: row.IDProduitCommande,
			IDProduit:         row.IDProduit,
			QuantiteProduit:   row.QuantiteProduit,
			PrixUnitaire:      row.PrixUnitaire,
			Nom:               row.Nom,
		})
	}
	return items, nil
}

// UpdateOrder reassigns the order's date or client; totals and lines are
// immutable outside order creation.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, req *UpdateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("invalid order update").WithDetails(utils.ValidationDetails(err))
	}

	updates := make(map[string]interface{})
	if req.DateCommande != nil {
		updates["date_commande"] = *req.DateCommande
	}
	if req.IDClient != nil {
		updates["id_client"] = *req.IDClient
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("nothing to update")
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id_commande = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("commande")
		}
		return nil, apperrors.Storage("fetching order", err)
	}

	if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return nil, apperrors.Storage("updating order", err)
	}

	return &order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Order{}, "id_commande = ?", id)
	if res.Error != nil {
		return apperrors.Storage("deleting order", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("commande")
	}
	return nil
}

// GetOrderLine looks up a single produit_commande row.
func (s *OrderService) GetOrderLine(ctx context.Context, id int64) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := s.db.WithContext(ctx).First(&line, "id_produit_commande = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ligne")
		}
		return nil, apperrors.Storage("fetching order line", err)
	}
	return &line, nil
}
