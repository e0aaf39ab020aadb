package services

import (
	"errors"
	"math"
	"strings"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/models"
	"ecommerce_api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEmptyCart is returned when an order is placed against a cart that does
// not exist or holds no items.
var ErrEmptyCart = apperrors.New(apperrors.KindNotFound, "cart is empty or not found")

type OrderService interface {
	PlaceOrder(userID uint, billingAddress, shippingAddress string) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	GetOrdersByUser(userID uint) ([]models.Order, error)
	GetOrderForUser(userID, orderID uint) (*models.Order, error)
	UpdateStatus(orderID uint, status string) (*models.Order, error)
}

type orderService struct {
	store repository.Store
}

func NewOrderService(store repository.Store) OrderService {
	return &orderService{store: store}
}

// PlaceOrder converts the user's cart into a durable order. The whole
// sequence runs in one transaction holding a lock on the cart row, so a
// cart is consumed at most once and the order total is the frozen sum of
// current product prices at placement time. The client never supplies a
// total and payment is never triggered here.
func (s *orderService) PlaceOrder(userID uint, billingAddress, shippingAddress string) (*models.Order, error) {
	billingAddress = strings.TrimSpace(billingAddress)
	shippingAddress = strings.TrimSpace(shippingAddress)
	if billingAddress == "" || shippingAddress == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "billing and shipping addresses are required")
	}

	var placed *models.Order
	err := s.store.InTx(func(r repository.Repositories) error {
		cart, err := r.Carts().GetByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		var total float64
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			product, err := r.Products().GetByID(item.ProductID)
			if err != nil {
				return asNotFound(err, "product no longer exists")
			}
			total += float64(item.Quantity) * product.Price
			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
		}

		order := &models.Order{
			OrderNumber:     newOrderNumber(),
			UserID:          userID,
			TotalPrice:      math.Round(total*100) / 100,
			Status:          models.OrderPending,
			BillingAddress:  billingAddress,
			ShippingAddress: shippingAddress,
			Items:           items,
		}
		if err := r.Orders().Create(order); err != nil {
			return err
		}
		if err := r.Carts().DeleteItems(cart.ID); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.store.Orders().GetAll()
}

func (s *orderService) GetOrdersByUser(userID uint) ([]models.Order, error) {
	return s.store.Orders().GetByUserID(userID)
}

// GetOrderForUser returns the order only if it belongs to userID. Foreign
// orders get the same NotFound as absent ones so callers cannot probe for
// other users' order IDs.
func (s *orderService) GetOrderForUser(userID, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, asNotFound(err, "order not found")
	}
	if order.UserID != userID {
		return nil, apperrors.New(apperrors.KindNotFound, "order not found")
	}
	return order, nil
}

func (s *orderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	switch status {
	case models.OrderPending, models.OrderShipped, models.OrderDelivered:
	default:
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid order status")
	}

	if err := s.store.Orders().UpdateStatus(orderID, status); err != nil {
		return nil, asNotFound(err, "order not found")
	}
	return s.store.Orders().GetByID(orderID)
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
