package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce_api/internal/models"
	"ecommerce_api/internal/repository/memory"
	"ecommerce_api/internal/services"
	"ecommerce_api/internal/token"
	"ecommerce_api/pkg/mpesa"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct{}

func (g *fakeGateway) STKPush(phone string, amount float64, accountReference, description string) (*mpesa.STKPushResponse, error) {
	return &mpesa.STKPushResponse{
		MerchantRequestID: "merchant-1",
		CheckoutRequestID: "checkout-1",
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

type testAPI struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	tokens := token.NewMaker("test-secret", time.Hour)

	authService := services.NewAuthService(store, tokens)
	catalogService := services.NewCatalogService(store, nil)
	cartService := services.NewCartService(store)
	orderService := services.NewOrderService(store)
	paymentService := services.NewPaymentService(store, &fakeGateway{})

	router := NewRouter(
		tokens,
		NewAuthHandler(authService),
		NewProductHandler(catalogService),
		NewCartHandler(cartService),
		NewOrderHandler(orderService),
		NewPaymentHandler(paymentService),
	)
	return &testAPI{router: router, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) registerAndLogin(t *testing.T, username, role string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/register", "", gin.H{
		"username": username,
		"password": "password",
		"email":    username + "@example.com",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodPost, "/login", "", gin.H{"username": username, "password": "password"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (a *testAPI) seedProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	category := &models.Category{Name: name + " category"}
	require.NoError(t, a.store.Categories().Create(category))
	product := &models.Product{Name: name, Description: "d", Price: price, CategoryID: category.ID}
	require.NoError(t, a.store.Products().Create(product))
	return product
}

func TestRegisterConflictsAndLoginFailures(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin(t, "alice", "")

	w := api.do(t, http.MethodPost, "/register", "", gin.H{
		"username": "alice", "password": "pw", "email": "alice2@example.com",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/cart", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	api := newTestAPI(t)
	customer := api.registerAndLogin(t, "alice", "")
	admin := api.registerAndLogin(t, "root", models.RoleAdmin)

	w := api.do(t, http.MethodGet, "/orders", customer, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/orders", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/categories", admin, gin.H{"name": "Denims"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPost, "/products", customer, gin.H{
		"name": "x", "description": "y", "price": 1.0, "category_id": 1,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCartToOrderFlow(t *testing.T) {
	api := newTestAPI(t)
	alice := api.registerAndLogin(t, "alice", "")
	bob := api.registerAndLogin(t, "bob", "")

	productA := api.seedProduct(t, "Classic Jeans", 10.00)
	productB := api.seedProduct(t, "Basic Tee", 5.00)

	// Ordering an empty cart fails before anything is in it.
	w := api.do(t, http.MethodPost, "/orders", alice, gin.H{
		"billing_address": "12 Billing St", "shipping_address": "34 Shipping Ave",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/cart", alice, gin.H{"product_id": productA.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.do(t, http.MethodPost, "/cart", alice, gin.H{"product_id": productB.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPost, "/cart", alice, gin.H{"product_id": productA.ID, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var cart services.CartView
	w = api.do(t, http.MethodGet, "/cart", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Equal(t, 25.00, cart.TotalPrice)
	require.Len(t, cart.Items, 2)

	w = api.do(t, http.MethodPost, "/orders", alice, gin.H{
		"billing_address": "12 Billing St", "shipping_address": "34 Shipping Ave",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var placed struct {
		OrderID    uint    `json:"order_id"`
		TotalPrice float64 `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	require.Equal(t, 25.00, placed.TotalPrice)

	// The cart is empty afterwards, so a second order fails.
	w = api.do(t, http.MethodGet, "/cart", alice, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Empty(t, cart.Items)

	w = api.do(t, http.MethodPost, "/orders", alice, gin.H{
		"billing_address": "12 Billing St", "shipping_address": "34 Shipping Ave",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/orders/my-orders", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine.Orders, 1)
	require.Len(t, mine.Orders[0].Items, 2)
	require.Equal(t, "Classic Jeans", mine.Orders[0].Items[0].Product.Name)

	w = api.do(t, http.MethodGet, "/order/1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Bob cannot see or even detect Alice's order.
	w = api.do(t, http.MethodGet, "/order/1", bob, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentFlow(t *testing.T) {
	api := newTestAPI(t)
	alice := api.registerAndLogin(t, "alice", "")
	product := api.seedProduct(t, "Ankle Boots", 120.00)

	w := api.do(t, http.MethodPost, "/cart", alice, gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.do(t, http.MethodPost, "/orders", alice, gin.H{
		"billing_address": "b", "shipping_address": "s",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPost, "/payments/stk-push", alice, gin.H{
		"order_id": 1, "phone_number": "0712345678",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var initiated struct {
		Payment models.Payment `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initiated))
	require.Equal(t, models.PaymentPending, initiated.Payment.Status)

	var payload mpesa.CallbackPayload
	payload.Body.StkCallback.CheckoutRequestID = initiated.Payment.CheckoutRequestID
	payload.Body.StkCallback.ResultCode = 0
	payload.Body.StkCallback.ResultDesc = "The service request is processed successfully."
	w = api.do(t, http.MethodPost, "/payments/callback", "", payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/payments/order/1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments struct {
		Payments []models.Payment `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payments))
	require.Len(t, payments.Payments, 1)
	require.Equal(t, models.PaymentCompleted, payments.Payments[0].Status)
}

func TestPublicCatalogRoutes(t *testing.T) {
	api := newTestAPI(t)
	api.seedProduct(t, "Floral Dress", 79.99)

	w := api.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Floral Dress", list[0].Name)
	require.Equal(t, "Floral Dress category", list[0].Category)

	w = api.do(t, http.MethodGet, "/products/9999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/categories/1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
