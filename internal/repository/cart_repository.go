package repository

import (
	"ecommerce_api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	// GetByUserID returns the user's cart with its items and their products
	// loaded, or gorm.ErrRecordNotFound if the user has no cart yet.
	GetByUserID(userID uint) (*models.Cart, error)
	GetOrCreateByUserID(userID uint) (*models.Cart, error)
	// GetByUserIDForUpdate locks the cart row for the enclosing transaction,
	// serializing checkout against concurrent checkouts of the same cart.
	GetByUserIDForUpdate(userID uint) (*models.Cart, error)
	FindItemByProduct(cartID, productID uint) (*models.CartItem, error)
	GetItem(cartID, itemID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(item *models.CartItem) error
	DeleteItem(cartID, itemID uint) error
	DeleteItems(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func (r *cartRepository) GetByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreateByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	cart = models.Cart{UserID: userID}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetByUserIDForUpdate(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.Where("cart_id = ?", cart.ID).Order("id").Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindItemByProduct(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) GetItem(cartID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

func (r *cartRepository) UpdateItem(item *models.CartItem) error {
	return r.db.Save(item).Error
}

func (r *cartRepository) DeleteItem(cartID, itemID uint) error {
	return r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{}).Error
}

func (r *cartRepository) DeleteItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
