// internal/handlers/order.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/sweetcake/sweetcake-backend/internal/models"
	"github.com/sweetcake/sweetcake-backend/internal/services"
	"github.com/sweetcake/sweetcake-backend/internal/utils"
)

// OrderService is the slice of the order service the handler uses.
type OrderService interface {
	CreateOrder(ctx context.Context, req *services.CreateOrderRequest) (*services.OrderReceipt, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersWithItems(ctx context.Context) ([]models.OrderView, error)
	GetOrder(ctx context.Context, id int64) (*models.OrderView, error)
	UpdateOrder(ctx context.Context, id int64, req *services.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrderLine(ctx context.Context, id int64) (*models.OrderLine, error)
}

type OrderHandler struct {
	orderService OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GET /commandes
func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"commandes": orders})
}

// GET /commandes/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"commande": order})
}

// GET /commandes-produits
func (h *OrderHandler) GetOrdersWithItems(c *gin.Context) {
	orders, err := h.orderService.ListOrdersWithItems(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"commandes": orders})
}

// POST /commandes
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"id_commande": receipt.IDCommande,
		"total":       receipt.Total,
	})
}

// PUT /commandes/:id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"commande": order})
}

// DELETE /commandes/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /lignes/:id
func (h *OrderHandler) GetOrderLine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	line, err := h.orderService.GetOrderLine(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"ligne": line})
}
