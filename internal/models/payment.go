package models

import "time"

// Payment records one STK push attempt against an order. The gateway
// acknowledgement creates it in pending state; the callback settles it.
type Payment struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	OrderID           uint      `json:"order_id" gorm:"index;not null"`
	PhoneNumber       string    `json:"phone_number" gorm:"not null"`
	Amount            float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	MerchantRequestID string    `json:"merchant_request_id"`
	CheckoutRequestID string    `json:"checkout_request_id" gorm:"uniqueIndex"`
	Status            string    `json:"status" gorm:"default:'pending'"` // pending, completed, failed
	ResultDesc        string    `json:"result_desc"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)
