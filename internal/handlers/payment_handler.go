package handlers

import (
	"net/http"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/services"
	"ecommerce_api/pkg/mpesa"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) InitiateSTKPush(c *gin.Context) {
	var req struct {
		OrderID     uint   `json:"order_id"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.New(apperrors.KindInvalidInput, "invalid data provided"))
		return
	}

	payment, customerMessage, err := h.paymentService.InitiatePayment(CurrentIdentity(c).UserID, req.OrderID, req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": customerMessage, "payment": payment})
}

// Callback is the unauthenticated gateway-facing settlement endpoint. It
// always answers in the acknowledgement shape the gateway expects.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var payload mpesa.CallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "Invalid payload"})
		return
	}

	if err := h.paymentService.HandleCallback(payload); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

func (h *PaymentHandler) ListForOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.paymentService.GetPaymentsForOrder(CurrentIdentity(c).UserID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
