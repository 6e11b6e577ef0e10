package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipping  = "shipping"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment methods
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodOnline       = "online"
)

// Customer is copied onto the order at checkout
type Customer struct {
	FullName string `json:"full_name" gorm:"not null"`
	Phone    string `json:"phone" gorm:"not null"`
	Email    string `json:"email,omitempty"`
	Province string `json:"province" gorm:"not null"`
	District string `json:"district" gorm:"not null"`
	Address  string `json:"address" gorm:"not null"`
	Note     string `json:"note,omitempty"`
}

type Order struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	OrderCode           string      `gorm:"uniqueIndex;not null" json:"order_code"`
	UserID              *uint       `json:"user_id,omitempty" gorm:"index"`
	CartToken           *string     `json:"cart_token,omitempty"`
	Customer            Customer    `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	Items               []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal            int64       `json:"subtotal" gorm:"not null"`
	Discount            int64       `json:"discount" gorm:"not null;default:0"`
	Total               int64       `json:"total" gorm:"not null"`
	CouponID            *uint       `json:"coupon_id,omitempty"`
	CouponCode          string      `json:"coupon_code,omitempty"`
	CouponDiscountType  string      `json:"coupon_discount_type,omitempty"`
	CouponDiscountValue float64     `json:"coupon_discount_value,omitempty"`
	Status              string      `json:"status" gorm:"not null;default:'pending'"`
	PaymentStatus       string      `json:"payment_status" gorm:"not null;default:'pending'"`
	PaymentMethod       string      `json:"payment_method" gorm:"not null;default:'cod'"`
	PaymentRef          string      `json:"payment_ref,omitempty"`
	Currency            string      `json:"currency" gorm:"default:'VND'"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	OrderID   uint   `json:"-" gorm:"index"`
	ProductID uint   `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal is price times quantity for one frozen line
func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
