package models

import "time"

// Order is an immutable, priced snapshot of a cart at the moment of
// checkout. Only Status may change after creation.
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	OrderNumber     string      `json:"order_number" gorm:"uniqueIndex;not null"`
	UserID          uint        `json:"user_id" gorm:"index;not null"`
	TotalPrice      float64     `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status          string      `json:"status" gorm:"default:'Pending'"` // Pending, Shipped, Delivered
	BillingAddress  string      `json:"billing_address" gorm:"not null"`
	ShippingAddress string      `json:"shipping_address" gorm:"not null"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"index;not null"`
	ProductID uint    `json:"product_id" gorm:"not null"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"type:decimal(10,2);not null"`
}

const (
	OrderPending   = "Pending"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
)
