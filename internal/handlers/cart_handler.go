package handlers

import (
	"net/http"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.GetCart(CurrentIdentity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Add(c *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}

	if err := h.cartService.AddItem(CurrentIdentity(c).UserID, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart successfully"})
}

func (h *CartHandler) Update(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}

	item, err := h.cartService.UpdateItem(CurrentIdentity(c).UserID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Cart item updated successfully",
		"item_id":    item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
}

func (h *CartHandler) Remove(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	if err := h.cartService.RemoveItem(CurrentIdentity(c).UserID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed successfully"})
}
