package services

import (
	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/models"
	"ecommerce_api/internal/repository"
	"ecommerce_api/pkg/mpesa"
)

// STKGateway is the slice of the M-Pesa client the payment service needs.
type STKGateway interface {
	STKPush(phone string, amount float64, accountReference, description string) (*mpesa.STKPushResponse, error)
}

type PaymentService interface {
	// InitiatePayment sends an STK push for the order's total and records a
	// pending payment. It returns the payment row and the gateway's
	// customer-facing message.
	InitiatePayment(userID, orderID uint, phoneNumber string) (*models.Payment, string, error)
	HandleCallback(payload mpesa.CallbackPayload) error
	GetPaymentsForOrder(userID, orderID uint) ([]models.Payment, error)
}

type paymentService struct {
	store   repository.Store
	gateway STKGateway
}

func NewPaymentService(store repository.Store, gateway STKGateway) PaymentService {
	return &paymentService{store: store, gateway: gateway}
}

func (s *paymentService) InitiatePayment(userID, orderID uint, phoneNumber string) (*models.Payment, string, error) {
	if phoneNumber == "" {
		return nil, "", apperrors.New(apperrors.KindInvalidInput, "phone number is required")
	}

	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, "", asNotFound(err, "order not found")
	}
	if order.UserID != userID {
		return nil, "", apperrors.New(apperrors.KindNotFound, "order not found")
	}

	resp, err := s.gateway.STKPush(phoneNumber, order.TotalPrice, order.OrderNumber, "Order "+order.OrderNumber)
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.KindInternal, "payment request failed")
	}
	if resp.ResponseCode != "0" {
		return nil, "", apperrors.Newf(apperrors.KindInternal, "payment gateway rejected the request: %s", resp.ResponseDescription)
	}

	payment := &models.Payment{
		OrderID:           order.ID,
		PhoneNumber:       phoneNumber,
		Amount:            order.TotalPrice,
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Status:            models.PaymentPending,
	}
	if err := s.store.Payments().Create(payment); err != nil {
		return nil, "", err
	}
	return payment, resp.CustomerMessage, nil
}

func (s *paymentService) HandleCallback(payload mpesa.CallbackPayload) error {
	cb := payload.Body.StkCallback
	payment, err := s.store.Payments().GetByCheckoutRequestID(cb.CheckoutRequestID)
	if err != nil {
		return asNotFound(err, "unknown checkout request")
	}

	// Callbacks may be retried by the gateway; settled payments stay settled.
	if payment.Status != models.PaymentPending {
		return nil
	}

	if cb.ResultCode == 0 {
		payment.Status = models.PaymentCompleted
	} else {
		payment.Status = models.PaymentFailed
	}
	payment.ResultDesc = cb.ResultDesc
	return s.store.Payments().Update(payment)
}

func (s *paymentService) GetPaymentsForOrder(userID, orderID uint) ([]models.Payment, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, asNotFound(err, "order not found")
	}
	if order.UserID != userID {
		return nil, apperrors.New(apperrors.KindNotFound, "order not found")
	}
	return s.store.Payments().GetByOrderID(orderID)
}
