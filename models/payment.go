package models

import (
	"time"
)

// Payment is one gateway attempt for an online order
type Payment struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrderID        uint      `json:"order_id" gorm:"index"`
	GatewayOrderID string    `json:"gateway_order_id" gorm:"index"`
	GatewayPayment string    `json:"gateway_payment_id,omitempty"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"` // pending, paid, failed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
