package services

import (
	"errors"

	"ecommerce_api/internal/apperrors"
	"ecommerce_api/internal/models"
	"ecommerce_api/internal/repository"

	"gorm.io/gorm"
)

// CartView is the joined cart representation returned to clients. A user
// with no cart yet gets an empty view, never an error.
type CartView struct {
	CartID     uint           `json:"cart_id"`
	TotalPrice float64        `json:"total_price"`
	Items      []CartItemView `json:"items"`
}

type CartItemView struct {
	ItemID      uint    `json:"item_id"`
	ProductID   uint    `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url"`
	Subtotal    float64 `json:"subtotal"`
}

type CartService interface {
	AddItem(userID, productID uint, quantity int) error
	UpdateItem(userID, itemID uint, quantity int) (*models.CartItem, error)
	RemoveItem(userID, itemID uint) error
	GetCart(userID uint) (*CartView, error)
}

type cartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) CartService {
	return &cartService{store: store}
}

func (s *cartService) AddItem(userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return apperrors.New(apperrors.KindInvalidInput, "invalid quantity")
	}
	if _, err := s.store.Products().GetByID(productID); err != nil {
		return asNotFound(err, "product not found")
	}

	cart, err := s.store.Carts().GetOrCreateByUserID(userID)
	if err != nil {
		return err
	}

	item, err := s.store.Carts().FindItemByProduct(cart.ID, productID)
	switch {
	case err == nil:
		item.Quantity += quantity
		return s.store.Carts().UpdateItem(item)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.store.Carts().CreateItem(&models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
	default:
		return err
	}
}

func (s *cartService) UpdateItem(userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid quantity provided")
	}

	cart, err := s.store.Carts().GetByUserID(userID)
	if err != nil {
		return nil, asNotFound(err, "cart not found")
	}

	item, err := s.store.Carts().GetItem(cart.ID, itemID)
	if err != nil {
		return nil, asNotFound(err, "cart item not found")
	}

	item.Quantity = quantity
	if err := s.store.Carts().UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) RemoveItem(userID, itemID uint) error {
	cart, err := s.store.Carts().GetByUserID(userID)
	if err != nil {
		return asNotFound(err, "cart not found")
	}

	if _, err := s.store.Carts().GetItem(cart.ID, itemID); err != nil {
		return asNotFound(err, "cart item not found")
	}
	return s.store.Carts().DeleteItem(cart.ID, itemID)
}

func (s *cartService) GetCart(userID uint) (*CartView, error) {
	cart, err := s.store.Carts().GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartView{Items: []CartItemView{}}, nil
		}
		return nil, err
	}

	view := &CartView{CartID: cart.ID, Items: make([]CartItemView, 0, len(cart.Items))}
	for _, item := range cart.Items {
		subtotal := float64(item.Quantity) * item.Product.Price
		view.Items = append(view.Items, CartItemView{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			Name:        item.Product.Name,
			Description: item.Product.Description,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
			ImageURL:    item.Product.ImageURL,
			Subtotal:    subtotal,
		})
		view.TotalPrice += subtotal
	}
	return view, nil
}
