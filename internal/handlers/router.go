package handlers

import (
	"net/http"

	"ecommerce_api/internal/token"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the full route table. Auth and role checks are attached
// per route so the table reads like the API surface.
func NewRouter(
	tokens *token.Maker,
	authHandler *AuthHandler,
	productHandler *ProductHandler,
	cartHandler *CartHandler,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
) *gin.Engine {
	router := gin.Default()

	auth := AuthRequired(tokens)
	admin := AdminRequired()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Project Server"})
	})

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	router.GET("/products", productHandler.List)
	router.GET("/products/:id", productHandler.Get)
	router.POST("/products", auth, admin, productHandler.Create)
	router.PUT("/products/:id", auth, admin, productHandler.Update)
	router.DELETE("/products/:id", auth, admin, productHandler.Delete)

	router.GET("/api/categories", productHandler.ListCategories)
	router.POST("/api/categories", auth, admin, productHandler.CreateCategory)
	router.GET("/api/categories/:id/products", productHandler.ListByCategory)

	router.GET("/cart", auth, cartHandler.Get)
	router.POST("/cart", auth, cartHandler.Add)
	router.PUT("/cart/:item_id", auth, cartHandler.Update)
	router.DELETE("/cart/:item_id", auth, cartHandler.Remove)

	router.POST("/orders", auth, orderHandler.Place)
	router.GET("/orders", auth, admin, orderHandler.ListAll)
	router.GET("/orders/my-orders", auth, orderHandler.MyOrders)
	router.GET("/order/:id", auth, orderHandler.Detail)
	router.PUT("/orders/:id/status", auth, admin, orderHandler.UpdateStatus)

	router.POST("/payments/stk-push", auth, paymentHandler.InitiateSTKPush)
	router.POST("/payments/callback", paymentHandler.Callback)
	router.GET("/payments/order/:id", auth, paymentHandler.ListForOrder)

	return router
}
