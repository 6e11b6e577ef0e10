package models

import (
	"time"
)

// Discount types
const (
	DiscountTypePercent = "percent"
	DiscountTypeAmount  = "amount"
)

type Coupon struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Code          string     `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType  string     `gorm:"not null" json:"discount_type"` // "percent" or "amount"
	DiscountValue float64    `gorm:"not null" json:"discount_value"`
	MaxDiscount   *int64     `json:"max_discount"` // percent only
	MinSubtotal   *int64     `json:"min_subtotal"`
	MaxSubtotal   *int64     `json:"max_subtotal"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	UsageLimit    *int       `json:"usage_limit"`
	UsedCount     int        `gorm:"not null;default:0" json:"used_count"`
	PerUserLimit  *int       `json:"per_user_limit"`

	OnlyFirstOrder  bool `gorm:"default:false" json:"only_first_order"`
	RequireLoggedIn bool `gorm:"default:false" json:"require_logged_in"`

	// Scoping lists are stored but not used when pricing a cart
	IncludeSkus       []string `gorm:"serializer:json" json:"include_skus"`
	ExcludeSkus       []string `gorm:"serializer:json" json:"exclude_skus"`
	IncludeCategories []string `gorm:"serializer:json" json:"include_categories"`
	ExcludeCategories []string `gorm:"serializer:json" json:"exclude_categories"`

	Stackable     bool      `gorm:"default:false" json:"stackable"`
	ExcludeOnSale bool      `gorm:"default:false" json:"exclude_on_sale"`
	Active        bool      `gorm:"not null" json:"active"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CouponRedemption records one order placed by a signed-in user with a coupon
type CouponRedemption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CouponID  uint      `gorm:"index:idx_redemptions_coupon_user" json:"coupon_id"`
	UserID    uint      `gorm:"index:idx_redemptions_coupon_user" json:"user_id"`
	OrderID   uint      `json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}
