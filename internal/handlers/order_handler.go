package handlers

import (
	"net/http"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Place(c *gin.Context) {
	var req struct {
		BillingAddress  string `json:"billing_address"`
		ShippingAddress string `json:"shipping_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}

	order, err := h.orderService.PlaceOrder(CurrentIdentity(c).UserID, req.BillingAddress, req.ShippingAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order created successfully",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_price":  order.TotalPrice,
	})
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.orderService.GetOrdersByUser(CurrentIdentity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Detail(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderForUser(CurrentIdentity(c).UserID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}

	order, err := h.orderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
}
