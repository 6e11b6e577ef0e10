package models

import (
	"time"
)

// Product is the inventory record a cart line points at
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex"`
	SKU       string    `json:"sku" gorm:"uniqueIndex;not null"`
	Category  string    `json:"category" gorm:"index"`
	ImageURL  string    `json:"image_url"`
	Price     int64     `json:"price" gorm:"not null;check:price >= 0"`
	PriceOld  int64     `json:"price_old" gorm:"default:0"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	Sold      int       `json:"sold" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Cart is owned by exactly one of UserID or CartToken.
type Cart struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             *uint      `json:"user_id" gorm:"uniqueIndex"`
	CartToken          *string    `json:"cart_token" gorm:"uniqueIndex"`
	Items              []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CouponCode         string     `json:"coupon_code"`
	CouponDiscountType string     `json:"coupon_discount_type"`
	CouponID           *uint      `json:"coupon_id"`
	ComputedDiscount   int64      `json:"computed_discount" gorm:"not null;default:0"`
	Currency           string     `json:"currency" gorm:"default:'VND'"`
	Version            int        `json:"-" gorm:"not null;default:0"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CartItem snapshots the product at the time it was added
type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	CartID    uint   `json:"-" gorm:"uniqueIndex:idx_cart_items_cart_product"`
	ProductID uint   `json:"product_id" gorm:"uniqueIndex:idx_cart_items_cart_product"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity" gorm:"check:quantity >= 1"`
	Position  int    `json:"-"`
}

// Subtotal sums unit price times quantity over all lines
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.UnitPrice * int64(it.Quantity)
	}
	return total
}

// TotalPayable never goes below zero
func (c *Cart) TotalPayable() int64 {
	total := c.Subtotal() - c.ComputedDiscount
	if total < 0 {
		return 0
	}
	return total
}

// FindItem returns the index of the line for productID, or -1
func (c *Cart) FindItem(productID uint) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
